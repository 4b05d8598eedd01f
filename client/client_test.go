package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/roster"
	"github.com/sagarc03/roster/client"
)

// fakeServer serves the roster API from an in-memory map.
type fakeServer struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]roster.User
}

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()

	fs := &fakeServer{users: map[int64]roster.User{}}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, roster.VersionInfo{Version: roster.APIVersion})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("POST /v1/users", func(w http.ResponseWriter, r *http.Request) {
		var in roster.CreateUser
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json", "message": "bad"})
			return
		}
		if err := in.Validate(); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "validation_failed", "message": err.Error()})
			return
		}
		fs.mu.Lock()
		fs.nextID++
		u := roster.User{ID: fs.nextID, Name: in.Name, Fullname: in.Fullname, Nickname: in.Nickname}
		fs.users[u.ID] = u
		fs.mu.Unlock()
		writeJSON(w, http.StatusOK, u)
	})
	mux.HandleFunc("GET /v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		fs.handleUser(w, r, false)
	})
	mux.HandleFunc("DELETE /v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		fs.handleUser(w, r, true)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func (fs *fakeServer) handleUser(w http.ResponseWriter, r *http.Request, remove bool) {
	var id int64
	if err := json.Unmarshal([]byte(r.PathValue("id")), &id); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id", "message": "bad id"})
		return
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	u, ok := fs.users[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "User not found"})
		return
	}
	if remove {
		delete(fs.users, id)
	}
	writeJSON(w, http.StatusOK, u)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func ada() roster.CreateUser {
	return roster.CreateUser{Name: "ada", Fullname: "Ada Lovelace", Nickname: "countess"}
}

func TestNew(t *testing.T) {
	t.Run("trims trailing slash", func(t *testing.T) {
		c, err := client.New("http://localhost:8080/")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", c.Endpoint())
	})

	t.Run("empty endpoint", func(t *testing.T) {
		_, err := client.New("  ")
		assert.ErrorIs(t, err, client.ErrEndpointRequired)
	})

	t.Run("relative endpoint", func(t *testing.T) {
		_, err := client.New("localhost")
		assert.Error(t, err)
	})

	t.Run("options", func(t *testing.T) {
		hc := &http.Client{}
		_, err := client.New("http://x", client.WithHTTPClient(hc), client.WithTimeout(time.Second))
		require.NoError(t, err)
		assert.Equal(t, time.Second, hc.Timeout)
	})
}

func TestClient_Lifecycle(t *testing.T) {
	srv := newFakeServer(t)
	c, err := client.New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := c.Create(ctx, ada())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Ada Lovelace", created.Fullname)

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	results, err := c.Delete(ctx, []int64{created.ID, 99})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Deleted)
	assert.Equal(t, created, results[0].User)
	assert.False(t, results[1].Deleted)
	assert.ErrorIs(t, results[1].Err, client.ErrNotFound)
	assert.True(t, client.HasDeleteErrors(results))

	_, err = c.Get(ctx, created.ID)
	assert.True(t, client.IsNotFound(err))
}

func TestClient_Errors(t *testing.T) {
	srv := newFakeServer(t)
	c, err := client.New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		_, err := c.Create(ctx, roster.CreateUser{Name: "ada"})
		require.ErrorIs(t, err, client.ErrInvalid)

		var apiErr *client.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "validation_failed", apiErr.Code)
		assert.Contains(t, err.Error(), "422 validation_failed")
	})

	t.Run("no ids", func(t *testing.T) {
		_, err := c.Delete(ctx, nil)
		assert.ErrorIs(t, err, client.ErrNoIDs)
	})

	t.Run("unreachable", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		dead.Close()

		dc, err := client.New(dead.URL)
		require.NoError(t, err)

		_, err = dc.Get(ctx, 1)
		require.Error(t, err)
		var apiErr *client.APIError
		assert.False(t, errors.As(err, &apiErr))
	})

	t.Run("cancelled delete stops early", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		results, err := c.Delete(cctx, []int64{1, 2})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, results)
	})
}

func TestClient_VersionAndHealth(t *testing.T) {
	srv := newFakeServer(t)
	c, err := client.New(srv.URL)
	require.NoError(t, err)

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, roster.APIVersion, v)

	assert.NoError(t, c.Health(context.Background()))
}

func TestAPIError(t *testing.T) {
	t.Run("plain body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		c, err := client.New(srv.URL)
		require.NoError(t, err)

		_, err = c.Get(context.Background(), 1)
		var apiErr *client.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, "boom", apiErr.Message)
		assert.Empty(t, apiErr.Code)
	})

	t.Run("is matches status only", func(t *testing.T) {
		err := &client.APIError{StatusCode: http.StatusNotFound, Code: "not_found"}
		assert.ErrorIs(t, err, client.ErrNotFound)
		assert.NotErrorIs(t, err, client.ErrInvalid)
	})

	t.Run("message falls back to status text", func(t *testing.T) {
		err := &client.APIError{StatusCode: http.StatusServiceUnavailable}
		assert.Equal(t, "server error: 503 - Service Unavailable", err.Error())
	})
}
