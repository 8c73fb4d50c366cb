package supabase_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/studybuddy/internal/adapters/supabase"
	"github.com/PabloGalante/studybuddy/internal/domain"
)

const userID = "6f1d0c2e-8b1a-4c3e-9f4a-1c2b3d4e5f60"

const userJSON = `{"id":"6f1d0c2e-8b1a-4c3e-9f4a-1c2b3d4e5f60","email":"ada@example.com","created_at":"2024-01-02T03:04:05Z","user_metadata":{"full_name":"Ada"}}`

func newClient(t *testing.T, mux *http.ServeMux) *supabase.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := supabase.NewClient(supabase.Options{URL: srv.URL + "/", AnonKey: "anon", ServiceKey: "service"})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresConfig(t *testing.T) {
	_, err := supabase.NewClient(supabase.Options{URL: "http://x"})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestSignUp(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		var body struct {
			Email string            `json:"email"`
			Data  map[string]string `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ada@example.com", body.Email)
		assert.Equal(t, "Ada", body.Data["full_name"])
		_, _ = io.WriteString(w, userJSON)
	})

	id, err := supabase.NewAuth(newClient(t, mux)).SignUp(context.Background(), "ada@example.com", "secret1", "Ada")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID(userID), id.ID)
	assert.Equal(t, "Ada", id.FullName)
}

func TestSignInAndErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "secret1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"access_token":"tok","refresh_token":"ref","expires_in":3600,"expires_at":1700000000,"user":`+userJSON+`}`)
	})
	auth := supabase.NewAuth(newClient(t, mux))

	sess, err := auth.SignIn(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok", sess.AccessToken)
	assert.Equal(t, int64(1700000000), sess.ExpiresAt.Unix())
	assert.Equal(t, domain.UserID(userID), sess.Identity.ID)

	_, err = auth.SignIn(context.Background(), "ada@example.com", "nope")
	msg, ok := domain.UserMessage(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid login credentials", msg)
}

func TestCurrentUserAndSignOut(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer live" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"msg":"invalid JWT"}`)
			return
		}
		_, _ = io.WriteString(w, userJSON)
	})
	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer live" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	auth := supabase.NewAuth(newClient(t, mux))
	ctx := context.Background()

	id, err := auth.CurrentUser(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", id.Email)

	id, err = auth.CurrentUser(ctx, "expired")
	require.NoError(t, err)
	assert.Nil(t, id)

	require.NoError(t, auth.SignOut(ctx, "live"))
	require.NoError(t, auth.SignOut(ctx, "expired"))
}

func TestStoragePutAndRemove(t *testing.T) {
	var uploaded []byte
	var removed []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /storage/v1/object/profile-pictures/avatars/u-1-42.png", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service", r.Header.Get("Authorization"))
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
		assert.Equal(t, "false", r.Header.Get("x-upsert"))
		uploaded, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"Key":"profile-pictures/avatars/u-1-42.png"}`)
	})
	mux.HandleFunc("DELETE /storage/v1/object/profile-pictures", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Prefixes []string `json:"prefixes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		removed = body.Prefixes
		_, _ = io.WriteString(w, `[]`)
	})
	c := newClient(t, mux)
	st := supabase.NewStorage(c, "profile-pictures")
	ctx := context.Background()

	url, err := st.Put(ctx, "avatars/u-1-42.png", "image/png", []byte("png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), uploaded)
	assert.Equal(t, st.PublicURL("avatars/u-1-42.png"), url)
	assert.Contains(t, url, "/storage/v1/object/public/profile-pictures/avatars/u-1-42.png")

	require.NoError(t, st.Remove(ctx, "avatars/old.png"))
	assert.Equal(t, []string{"avatars/old.png"}, removed)
}

func TestStoragePutConflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /storage/v1/object/b/x.png", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"statusCode":"409","error":"Duplicate","message":"The resource already exists"}`)
	})

	_, err := supabase.NewStorage(newClient(t, mux), "b").Put(context.Background(), "x.png", "image/png", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "The resource already exists")
}

func TestStoragePutHonorsContext(t *testing.T) {
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("POST /storage/v1/object/b/slow.png", func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = io.WriteString(w, `{"Key":"b/slow.png"}`)
	})
	st := supabase.NewStorage(newClient(t, mux), "b")
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := st.Put(ctx, "slow.png", "image/png", []byte("png"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSignInHonorsContext(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	auth := supabase.NewAuth(newClient(t, mux))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := auth.SignIn(ctx, "ada@example.com", "secret1")
	require.ErrorIs(t, err, context.Canceled)
}
