package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/lunchpicker/lunchpicker/internal/auth"
	"github.com/lunchpicker/lunchpicker/internal/discovery"
	"github.com/lunchpicker/lunchpicker/internal/metrics"
	"github.com/lunchpicker/lunchpicker/internal/middleware"
	"github.com/lunchpicker/lunchpicker/internal/models"
	"github.com/lunchpicker/lunchpicker/internal/overpass"
	"github.com/lunchpicker/lunchpicker/internal/storage/sqlite"
	"github.com/lunchpicker/lunchpicker/internal/validation"
	"github.com/lunchpicker/lunchpicker/pkg/api/apiconnect"
)

// testUserHeader names the header the test interceptor reads the caller from.
const testUserHeader = "X-Test-User"

// testAuthInterceptor returns a Connect interceptor that sets the user ID from
// the X-Test-User header in the context.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
			}
			return next(ctx, req)
		}
	}
}

// as builds a request sent on behalf of userID.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, userID)
	return req
}

// fakeOverpass stands in for the Overpass API and records the last query.
type fakeOverpass struct {
	mu        sync.Mutex
	status    int
	body      string
	lastQuery string
	calls     int
}

func (f *fakeOverpass) respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status, f.body = status, body
}

func (f *fakeOverpass) query() (string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery, f.calls
}

func (f *fakeOverpass) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	form, _ := url.ParseQuery(string(raw))

	f.mu.Lock()
	f.calls++
	f.lastQuery = form.Get("data")
	status, body := f.status, f.body
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

type testEnv struct {
	store      *sqlite.SQLiteStore
	metrics    *metrics.Metrics
	groupSvc   *GroupService
	jwt        *auth.JWTManager
	poi        *fakeOverpass
	auth       *apiconnect.AuthServiceClient
	groups     *apiconnect.GroupServiceClient
	exclusions *apiconnect.ExclusionServiceClient
	venues     *apiconnect.VenueServiceClient
}

// setupTestServer creates a test server with a temp SQLite database, a fake
// Overpass endpoint and clients for every service.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "lunchpicker-service-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	poi := &fakeOverpass{status: http.StatusOK, body: `{"elements":[]}`}
	poiServer := httptest.NewServer(poi)
	t.Cleanup(poiServer.Close)

	m := metrics.New()
	v := validation.New()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	groupSvc := NewGroupService(store, v, m)
	authSvc := NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, v, logger)
	exclusionSvc := NewExclusionService(store, v)
	finder := discovery.NewFinder(overpass.NewClient(poiServer.URL, 5*time.Second), store)
	venueSvc := NewVenueService(finder, m)

	testAuth := connect.WithInterceptors(testAuthInterceptor())

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(authSvc, connect.WithInterceptors(middleware.OptionalAuth(jwtManager))))
	mux.Handle(apiconnect.NewGroupServiceHandler(groupSvc, testAuth))
	mux.Handle(apiconnect.NewExclusionServiceHandler(exclusionSvc, testAuth))
	mux.Handle(apiconnect.NewVenueServiceHandler(venueSvc, testAuth))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		store:      store,
		metrics:    m,
		groupSvc:   groupSvc,
		jwt:        jwtManager,
		poi:        poi,
		auth:       apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:     apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		exclusions: apiconnect.NewExclusionServiceClient(http.DefaultClient, server.URL),
		venues:     apiconnect.NewVenueServiceClient(http.DefaultClient, server.URL),
	}
}

// createUser stores a user directly and returns its ID.
func (e *testEnv) createUser(t *testing.T, email, name string) string {
	t.Helper()

	user := models.NewUser(email, name, "unused-hash")
	if err := e.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user.ID
}

// assertCode fails the test unless err is a Connect error with the given code.
func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}
