package session

// Store persists the opaque bearer token issued at sign-in. The token is
// never inspected; expiry is the backend's responsibility.
type Store interface {
	// Token returns the stored token, or "" when no session exists.
	Token() (string, error)
	Save(token string) error
	Clear() error
}
