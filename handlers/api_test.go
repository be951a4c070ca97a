package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"iotview/auth"
	"iotview/config"
	"iotview/gateway"
)

type memStore struct{ token string }

func (s *memStore) Token() (string, error) { return s.token, nil }
func (s *memStore) Save(token string) error {
	s.token = token
	return nil
}
func (s *memStore) Clear() error {
	s.token = ""
	return nil
}

// fakeBackend mimics the remote REST API the gateway talks to.
func fakeBackend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UsernameOrEmail string `json:"username_or_email"`
			Password        string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "abc123"})
	})
	mux.HandleFunc("/services/IotConnect/getAllIoTConnections", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"connection_id": "c1", "connection_name": "House 1"}]`))
	})
	mux.HandleFunc("/services/IotConnect/getConnectionById/c1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"connection_id": "c1", "connection_url": "localhost", "port": 9001, "subscribe_topic": "sensors/house1", "qos": 1, "password": "hunter2"}`))
	})
	return mux
}

func newTestServer(t *testing.T, store *memStore) *Server {
	t.Helper()
	backend := httptest.NewServer(fakeBackend())
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		APIBaseURL:     backend.URL,
		HTTPTimeout:    5 * time.Second,
		ListenAddr:     ":0",
		SessionMinutes: 170,
		WindowSize:     11,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := gateway.NewClient(cfg, store, logger)
	authController := auth.NewController(gw, store, cfg.SessionMinutes, logger)
	registry := NewRegistry(cfg.WindowSize, logger)
	t.Cleanup(registry.CloseAll)

	return NewServer(cfg, NewAPIHandler(authController, gw, registry), registry, logger)
}

func doRequest(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestLoginRoute(t *testing.T) {
	t.Run("valid credentials sign in", func(t *testing.T) {
		store := &memStore{}
		server := newTestServer(t, store)

		rec := doRequest(server, http.MethodPost, "/auth/login", `{"username_or_email": "alice", "password": "secret"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
		}
		if store.token != "abc123" {
			t.Errorf("token not stored: %q", store.token)
		}
	})

	t.Run("rejected credentials map to 401 with the server message", func(t *testing.T) {
		server := newTestServer(t, &memStore{})

		rec := doRequest(server, http.MethodPost, "/auth/login", `{"username_or_email": "alice", "password": "wrong"}`)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		var resp struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid error body: %v", err)
		}
		if resp.Status != "error" || resp.Message != "Invalid credentials" {
			t.Errorf("unexpected error body: %+v", resp)
		}
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("unauthenticated requests are rejected", func(t *testing.T) {
		server := newTestServer(t, &memStore{})

		rec := doRequest(server, http.MethodGet, "/connections", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("a stored session passes through", func(t *testing.T) {
		server := newTestServer(t, &memStore{token: "abc123"})

		rec := doRequest(server, http.MethodGet, "/connections", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
		}
	})
}

func TestConnectionRoutes(t *testing.T) {
	server := newTestServer(t, &memStore{token: "abc123"})

	t.Run("detail masks the password", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/connections/c1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
		}
		if strings.Contains(rec.Body.String(), "hunter2") {
			t.Error("plaintext password leaked into the detail response")
		}
	})
}

func TestViewerRoutes(t *testing.T) {
	server := newTestServer(t, &memStore{token: "abc123"})

	t.Run("status without an open viewer is 404", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/connections/c1/viewer", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("open then inspect", func(t *testing.T) {
		rec := doRequest(server, http.MethodPost, "/connections/c1/viewer", "")
		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body)
		}

		rec = doRequest(server, http.MethodGet, "/connections/c1/viewer", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
		}

		rec = doRequest(server, http.MethodGet, "/connections/c1/viewer/messages?view=chart", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
		}
		if !strings.Contains(rec.Body.String(), `"empty":true`) {
			t.Errorf("empty window should report the chart empty state: %s", rec.Body)
		}

		rec = doRequest(server, http.MethodGet, "/connections/c1/viewer/messages?view=bogus", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for unknown view, got %d", rec.Code)
		}
	})

	t.Run("export downloads an attachment", func(t *testing.T) {
		rec := doRequest(server, http.MethodGet, "/connections/c1/viewer/export/json", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
		}
		if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "mqtt-messages.json") {
			t.Errorf("unexpected disposition %q", got)
		}
		if rec.Body.String() != "[]" {
			t.Errorf("empty window must export as [], got %q", rec.Body)
		}

		rec = doRequest(server, http.MethodGet, "/connections/c1/viewer/export/csv", "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for unknown format, got %d", rec.Code)
		}
	})

	t.Run("close is a no-op for unknown ids", func(t *testing.T) {
		rec := doRequest(server, http.MethodDelete, "/connections/unknown/viewer", "")
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})
}
