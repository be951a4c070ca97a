package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"iotview/gateway"
	"iotview/session"
)

// State is the controller's authentication state.
type State int

const (
	StateUnknown State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Controller owns session state for the whole process. Token presence is
// checked once at construction; a stale token is only discovered when a
// later API call fails.
type Controller struct {
	gateway        *gateway.Client
	store          session.Store
	sessionMinutes int
	logger         *slog.Logger

	mu    sync.RWMutex
	state State
}

func NewController(gw *gateway.Client, store session.Store, sessionMinutes int, logger *slog.Logger) *Controller {
	c := &Controller{
		gateway:        gw,
		store:          store,
		sessionMinutes: sessionMinutes,
		logger:         logger.With("component", "auth"),
		state:          StateUnknown,
	}

	token, err := store.Token()
	if err != nil {
		c.logger.Error("failed to read stored session token", slog.Any("error", err))
	}
	if token != "" {
		c.state = StateAuthenticated
	} else {
		c.state = StateUnauthenticated
	}
	return c
}

// Login forwards credentials to the backend and stores the returned token.
// On any failure the unauthenticated state is preserved.
func (c *Controller) Login(ctx context.Context, identifier, secret string) error {
	token, err := c.gateway.SignIn(ctx, identifier, secret, c.sessionMinutes)
	if err != nil {
		return err
	}
	if err := c.store.Save(token); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}

	c.mu.Lock()
	c.state = StateAuthenticated
	c.mu.Unlock()
	c.logger.Info("signed in")
	return nil
}

// Logout revokes the session remotely on a best-effort basis, then
// unconditionally clears the local token. It never fails from the caller's
// perspective.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.gateway.SignOut(ctx); err != nil {
		c.logger.Warn("remote sign-out failed", slog.Any("error", err))
	}
	if err := c.store.Clear(); err != nil {
		c.logger.Error("failed to clear session token", slog.Any("error", err))
	}

	c.mu.Lock()
	c.state = StateUnauthenticated
	c.mu.Unlock()
	c.logger.Info("signed out")
}

func (c *Controller) IsAuthenticated() bool {
	return c.State() == StateAuthenticated
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}
