package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nochase/nochase/internal/app"
	"github.com/nochase/nochase/internal/config"
	"github.com/nochase/nochase/internal/model"
	"github.com/nochase/nochase/internal/routes"
	"github.com/nochase/nochase/internal/service"
)

const testSecret = "client-test-secret"

// setupStore runs the real store on a temporary SQLite database.
func setupStore(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		AppName:            "No Chase",
		AppEnv:             "development",
		DBDriver:           "sqlite",
		DBConnection:       filepath.Join(t.TempDir(), "store.db") + "?_time_format=sqlite",
		AutoMigrate:        true,
		JWTSecret:          testSecret,
		JWTExpiry:          time.Hour,
		APIKey:             apiKey,
		RateLimitPerMinute: 6000,
		RateLimitBurst:     100,
	}

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv := httptest.NewServer(routes.SetupRoutes(a))
	t.Cleanup(srv.Close)
	return srv
}

func sessionFor(t *testing.T, userID string) *Session {
	t.Helper()
	token, err := service.NewJWTVerifier(testSecret, time.Hour).GenerateJWT(userID, userID+"@example.com")
	require.NoError(t, err)
	return &Session{Token: token}
}

func newClient(t *testing.T, srv *httptest.Server, opts ...Option) *GoalClient {
	t.Helper()
	c, err := New(srv.URL, append([]Option{WithHTTPClient(srv.Client())}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)

	_, err = New("://nope")
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("NOCHASE_URL", "")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("NOCHASE_URL", "https://store.nochase.app/")
	t.Setenv("NOCHASE_API_KEY", "k-1")
	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://store.nochase.app", c.baseURL.String())
	assert.Equal(t, "k-1", c.apiKey)
}

func TestGoalLifecycle(t *testing.T) {
	srv := setupStore(t, "")
	c := newClient(t, srv)
	sess := sessionFor(t, "alice")
	ctx := context.Background()

	motivation := "I deserve calm"
	first, err := c.CreateGoal(ctx, sess, model.NewGoal{Title: "No texting", Motivation: &motivation, TargetDays: 3})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "alice", first.UserID)
	assert.False(t, first.Completed)
	require.NotNil(t, first.Motivation)
	assert.Equal(t, motivation, *first.Motivation)

	time.Sleep(5 * time.Millisecond)
	second, err := c.CreateGoal(ctx, sess, model.NewGoal{Title: "No checking socials", TargetDays: 7})
	require.NoError(t, err)

	goals, err := c.ListGoals(ctx, sess)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, second.ID, goals[0].ID, "newest first")
	assert.Equal(t, first.ID, goals[1].ID)

	got, err := c.Goal(ctx, sess, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "No texting", got.Title)

	title := "No texting, no calling"
	updated, err := c.UpdateGoal(ctx, sess, first.ID, model.GoalPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.False(t, updated.UpdatedAt.Before(first.UpdatedAt))

	summary, err := c.Summary(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Active)
}

func TestCompleteTwiceIsIdempotent(t *testing.T) {
	srv := setupStore(t, "")
	c := newClient(t, srv)
	sess := sessionFor(t, "alice")
	ctx := context.Background()

	goal, err := c.CreateGoal(ctx, sess, model.NewGoal{Title: "No chasing", TargetDays: 1})
	require.NoError(t, err)

	done, err := c.CompleteGoal(ctx, sess, goal.ID)
	require.NoError(t, err)
	assert.True(t, done.Completed)

	again, err := c.CompleteGoal(ctx, sess, goal.ID)
	require.NoError(t, err)
	assert.True(t, again.Completed)

	reopen := false
	_, err = c.UpdateGoal(ctx, sess, goal.ID, model.GoalPatch{Completed: &reopen})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteThenList(t *testing.T) {
	srv := setupStore(t, "")
	c := newClient(t, srv)
	sess := sessionFor(t, "alice")
	ctx := context.Background()

	goal, err := c.CreateGoal(ctx, sess, model.NewGoal{Title: "No stalking", TargetDays: 2})
	require.NoError(t, err)

	require.NoError(t, c.DeleteGoal(ctx, sess, goal.ID))

	goals, err := c.ListGoals(ctx, sess)
	require.NoError(t, err)
	for _, g := range goals {
		assert.NotEqual(t, goal.ID, g.ID)
	}

	assert.NoError(t, c.DeleteGoal(ctx, sess, goal.ID), "deleting again succeeds")

	_, err = c.Goal(ctx, sess, goal.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)
}

func TestOtherUsersGoalsAreInvisible(t *testing.T) {
	srv := setupStore(t, "")
	c := newClient(t, srv)
	alice := sessionFor(t, "alice")
	bob := sessionFor(t, "bob")
	ctx := context.Background()

	goal, err := c.CreateGoal(ctx, alice, model.NewGoal{Title: "Alice's goal", TargetDays: 2})
	require.NoError(t, err)

	goals, err := c.ListGoals(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, goals)
	assert.NotNil(t, goals)

	_, err = c.Goal(ctx, bob, goal.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	_, err = c.CompleteGoal(ctx, bob, goal.ID)
	assert.ErrorIs(t, err, ErrNotFoundOrForbidden)

	require.NoError(t, c.DeleteGoal(ctx, bob, goal.ID))
	_, err = c.Goal(ctx, alice, goal.ID)
	assert.NoError(t, err, "bob's delete left alice's goal alone")
}

func TestUnauthenticated(t *testing.T) {
	srv := setupStore(t, "")
	c := newClient(t, srv)
	ctx := context.Background()

	goals, err := c.ListGoals(ctx, nil)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.Nil(t, goals)

	_, err = c.ListGoals(ctx, &Session{})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	_, err = c.ListGoals(ctx, &Session{Token: "forged"})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, model.CodeAuthenticationRequired, statusErr.Code)
}

func TestValidationHappensBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := newClient(t, srv)
	sess := &Session{Token: "token"}
	ctx := context.Background()

	_, err := c.CreateGoal(ctx, sess, model.NewGoal{Title: "", TargetDays: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = c.CreateGoal(ctx, sess, model.NewGoal{Title: "ok", TargetDays: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = c.UpdateGoal(ctx, sess, "g1", model.GoalPatch{})
	assert.ErrorIs(t, err, ErrValidation)

	negative := -3
	_, err = c.UpdateGoal(ctx, sess, "g1", model.GoalPatch{TargetDays: &negative})
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, c.DeleteGoal(ctx, sess, " "), ErrValidation)

	_, err = c.CreateGoal(ctx, nil, model.NewGoal{Title: "ok", TargetDays: 1})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	assert.Zero(t, calls.Load())
}

func TestStoreFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	t.Cleanup(srv.Close)

	c := newClient(t, srv)
	_, err := c.ListGoals(context.Background(), &Session{Token: "token"})
	assert.ErrorIs(t, err, ErrStoreFailure)

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	c, err = New(closedURL)
	require.NoError(t, err)
	_, err = c.ListGoals(context.Background(), &Session{Token: "token"})
	assert.ErrorIs(t, err, ErrStoreFailure)
}

func TestSendsCredentials(t *testing.T) {
	var gotAuth, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	c := newClient(t, srv, WithAPIKey("key-1"))
	goals, err := c.ListGoals(context.Background(), &Session{Token: "tok-1"})
	require.NoError(t, err)
	assert.Empty(t, goals)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "key-1", gotKey)
}

func TestAPIKeyEnforcedByStore(t *testing.T) {
	srv := setupStore(t, "store-key")
	sess := sessionFor(t, "alice")

	_, err := newClient(t, srv).ListGoals(context.Background(), sess)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)

	goals, err := newClient(t, srv, WithAPIKey("store-key")).ListGoals(context.Background(), sess)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		status int
		code   string
		want   error
	}{
		{http.StatusUnauthorized, "", ErrAuthenticationRequired},
		{http.StatusForbidden, "", ErrNotFoundOrForbidden},
		{http.StatusNotFound, "", ErrNotFoundOrForbidden},
		{http.StatusBadRequest, "", ErrValidation},
		{http.StatusTooManyRequests, model.CodeRateLimited, ErrStoreFailure},
		{http.StatusInternalServerError, model.CodeStoreFailure, ErrStoreFailure},
		{http.StatusBadGateway, model.CodeNotFound, ErrNotFoundOrForbidden},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, kindFor(tt.status, tt.code), "status %d code %q", tt.status, tt.code)
	}
}
