package gateway

// Kind classifies gateway failures so the front-ends can pick a banner and,
// in web mode, a status code.
type Kind int

const (
	// KindAuth covers rejected credentials and malformed sign-in responses.
	KindAuth Kind = iota
	// KindNetwork covers an unreachable server; it gets a distinct message.
	KindNetwork
	// KindFetch covers every other non-2xx or decode failure on list/get.
	KindFetch
)

// networkMessage is the user-facing text for an unreachable backend.
const networkMessage = "Unable to connect to the server. Please check if the server is running and accessible."

// Error carries a single user-facing message plus the wrapped cause kept for
// logging only.
type Error struct {
	Kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}

// --- Error Helper Functions ---

// NewAuthError creates a sign-in failure.
func NewAuthError(message string, originalError ...error) *Error {
	e := &Error{
		Kind:    KindAuth,
		Message: message,
	}
	if len(originalError) > 0 {
		e.err = originalError[0]
	}
	return e
}

// NewNetworkError creates an unreachable-server failure.
func NewNetworkError(originalError error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: networkMessage,
		err:     originalError,
	}
}

// NewFetchError creates a generic request failure.
func NewFetchError(message string, originalError error) *Error {
	return &Error{
		Kind:    KindFetch,
		Message: message,
		err:     originalError,
	}
}
