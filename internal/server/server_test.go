package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"starwars-api/internal/database"
	"starwars-api/internal/handlers"
	"starwars-api/internal/middleware"
	"starwars-api/internal/models"
	"starwars-api/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type change struct {
	userID   uint
	target   models.FavoriteTarget
	targetID uint
	action   string
}

type recordingNotifier struct {
	mu      sync.Mutex
	changes []change
}

func (n *recordingNotifier) EnqueueFavoriteChanged(_ context.Context, userID uint, target models.FavoriteTarget, targetID uint, action string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, change{userID, target, targetID, action})
	return nil
}

type testServer struct {
	e        *echo.Echo
	db       *gorm.DB
	notifier *recordingNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.Connect(database.Config{SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	notifier := &recordingNotifier{}
	e := New(Options{ServiceName: "starwars-api-test", Users: middleware.FixedUser(1)}, Handlers{
		People:    handlers.NewPeopleHandler(services.NewPeopleService(db)),
		Planets:   handlers.NewPlanetHandler(services.NewPlanetService(db)),
		Users:     handlers.NewUserHandler(services.NewUserService(db)),
		Favorites: handlers.NewFavoriteHandler(services.NewFavoriteService(db), notifier),
		Health:    handlers.NewHealthHandler(db, ""),
	})

	return &testServer{e: e, db: db, notifier: notifier}
}

func (s *testServer) do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func (s *testServer) seedUser(t *testing.T) {
	t.Helper()
	require.NoError(t, s.db.Create(&models.User{ID: 1, Email: "user@starwars.dev", PasswordHash: "hash", IsActive: true}).Error)
}

func TestPeopleEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/people")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	luke := models.People{Name: "Luke Skywalker", Height: "172", Mass: "77", HairColor: "blond", EyeColor: "blue", BirthYear: "19BBY", Gender: "male"}
	require.NoError(t, s.db.Create(&luke).Error)

	rec = s.do(t, http.MethodGet, "/people/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	var got models.PeopleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, luke.ToResponse(), got)

	rec = s.do(t, http.MethodGet, "/people/2")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Person not found"}`, rec.Body.String())
}

func TestPlanetEndpoints(t *testing.T) {
	s := newTestServer(t)

	tatooine := models.Planet{Name: "Tatooine", Climate: "arid", Terrain: "desert", Population: "200000"}
	require.NoError(t, s.db.Create(&tatooine).Error)

	rec := s.do(t, http.MethodGet, "/planets")
	assert.Equal(t, http.StatusOK, rec.Code)
	var list []models.PlanetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Tatooine", list[0].Name)

	rec = s.do(t, http.MethodGet, "/planets/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	var got models.PlanetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, tatooine.ToResponse(), got)

	rec = s.do(t, http.MethodGet, "/planets/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Planet not found"}`, rec.Body.String())
}

func TestInvalidIDs(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/people/abc"},
		{http.MethodGet, "/planets/0"},
		{http.MethodGet, "/planets/-3"},
		{http.MethodPost, "/favorite/planet/tatooine"},
		{http.MethodDelete, "/favorite/people/1.5"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"invalid id"}`, rec.Body.String())
		})
	}
}

func TestUsersExcludePassword(t *testing.T) {
	s := newTestServer(t)
	s.seedUser(t)

	rec := s.do(t, http.MethodGet, "/users")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"email":"user@starwars.dev","is_active":true}]`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestFavoritesWithoutUser(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/users/favorites")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, rec.Body.String())
}

func TestTatooineScenario(t *testing.T) {
	s := newTestServer(t)
	s.seedUser(t)
	require.NoError(t, s.db.Create(&models.Planet{ID: 1, Name: "Tatooine"}).Error)

	rec := s.do(t, http.MethodPost, "/favorite/planet/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg":"Planet added to favorites"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/users/favorites")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"user_id":1,"planet_id":1,"people_id":null}]`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/favorite/planet/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg":"Planet removed from favorites"}`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/favorite/planet/1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Favorite not found"}`, rec.Body.String())

	assert.Equal(t, []change{
		{1, models.TargetPlanet, 1, "added"},
		{1, models.TargetPlanet, 1, "removed"},
	}, s.notifier.changes)
}

func TestPeopleFavorites(t *testing.T) {
	s := newTestServer(t)
	s.seedUser(t)

	rec := s.do(t, http.MethodPost, "/favorite/people/4")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg":"Person added to favorites"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/users/favorites")
	assert.JSONEq(t, `[{"id":1,"user_id":1,"planet_id":null,"people_id":4}]`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/favorite/planet/4")
	assert.Equal(t, http.StatusNotFound, rec.Code, "a people favorite is not a planet favorite")

	rec = s.do(t, http.MethodDelete, "/favorite/people/4")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"msg":"Person removed from favorites"}`, rec.Body.String())
}

func TestDuplicateFavoritesAccumulate(t *testing.T) {
	s := newTestServer(t)
	s.seedUser(t)

	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/favorite/planet/2")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := s.do(t, http.MethodDelete, "/favorite/planet/2")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/users/favorites")
	var favorites []models.FavoriteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &favorites))
	require.Len(t, favorites, 1)
	require.NotNil(t, favorites[0].PlanetID)
	assert.Equal(t, uint(2), *favorites[0].PlanetID)
	assert.Nil(t, favorites[0].PeopleID)
}

func TestSitemapListsEveryRoute(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, rec.Code)

	var sitemap handlers.SitemapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sitemap))

	for _, want := range []handlers.RouteEntry{
		{Method: http.MethodGet, Path: "/"},
		{Method: http.MethodGet, Path: "/people"},
		{Method: http.MethodGet, Path: "/people/:id"},
		{Method: http.MethodGet, Path: "/planets"},
		{Method: http.MethodGet, Path: "/planets/:id"},
		{Method: http.MethodGet, Path: "/users"},
		{Method: http.MethodGet, Path: "/users/favorites"},
		{Method: http.MethodPost, Path: "/favorite/planet/:id"},
		{Method: http.MethodPost, Path: "/favorite/people/:id"},
		{Method: http.MethodDelete, Path: "/favorite/planet/:id"},
		{Method: http.MethodDelete, Path: "/favorite/people/:id"},
	} {
		assert.Contains(t, sitemap.Routes, want)
	}
}

func TestTrailingSlashAndCORS(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/planets/", nil)
	req.Header.Set(echo.HeaderOrigin, "http://example.com")
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","database":"healthy","redis":"disabled"}`, rec.Body.String())
}

func TestStorageUnavailable(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, database.Close(s.db))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/people"},
		{http.MethodGet, "/planets/1"},
		{http.MethodGet, "/users/favorites"},
		{http.MethodPost, "/favorite/planet/1"},
		{http.MethodDelete, "/favorite/people/1"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := s.do(t, tc.method, tc.path)
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.JSONEq(t, `{"error":"storage unavailable"}`, rec.Body.String())
		})
	}

	rec := s.do(t, http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/starships")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}
