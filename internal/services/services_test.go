package services

import (
	"context"
	"path/filepath"
	"testing"

	"starwars-api/internal/database"
	"starwars-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.User{ID: id, Email: "user@starwars.dev", PasswordHash: "x", IsActive: true}).Error)
}

func TestPeopleService(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewPeopleService(db)

	people, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, people)
	assert.NotNil(t, people)

	luke := models.People{Name: "Luke Skywalker", Height: "172", EyeColor: "blue"}
	require.NoError(t, db.Create(&luke).Error)

	people, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Luke Skywalker", people[0].Name)

	got, err := svc.GetByID(ctx, luke.ID)
	require.NoError(t, err)
	assert.Equal(t, "172", got.Height)

	_, err = svc.GetByID(ctx, luke.ID+100)
	assert.ErrorIs(t, err, ErrPersonNotFound)
}

func TestPlanetService(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewPlanetService(db)

	tatooine := models.Planet{Name: "Tatooine", Climate: "arid"}
	hoth := models.Planet{Name: "Hoth", Climate: "frozen"}
	require.NoError(t, db.Create(&tatooine).Error)
	require.NoError(t, db.Create(&hoth).Error)

	planets, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, planets, 2)
	assert.Equal(t, "Tatooine", planets[0].Name)
	assert.Equal(t, "Hoth", planets[1].Name)

	got, err := svc.GetByID(ctx, hoth.ID)
	require.NoError(t, err)
	assert.Equal(t, "frozen", got.Climate)

	_, err = svc.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrPlanetNotFound)
}

func TestUserService(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewUserService(db)

	seedUser(t, db, 1)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "user@starwars.dev", users[0].Email)

	_, err = svc.GetByID(ctx, 2)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFavoriteListRequiresUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewFavoriteService(db)

	_, err := svc.List(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFavoriteAddThenList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewFavoriteService(db)
	seedUser(t, db, 1)

	_, err := svc.AddPlanet(ctx, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddPeople(ctx, 1, 4)
	require.NoError(t, err)

	favorites, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, favorites, 2)

	require.NotNil(t, favorites[0].PlanetID)
	assert.Equal(t, uint(1), *favorites[0].PlanetID)
	assert.Nil(t, favorites[0].PeopleID)
	assert.Equal(t, uint(1), favorites[0].UserID)

	require.NotNil(t, favorites[1].PeopleID)
	assert.Equal(t, uint(4), *favorites[1].PeopleID)
	assert.Nil(t, favorites[1].PlanetID)
}

func TestFavoriteListIsScopedToUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewFavoriteService(db)
	seedUser(t, db, 1)

	_, err := svc.AddPlanet(ctx, 2, 1)
	require.NoError(t, err)

	favorites, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, favorites)
}

func TestFavoriteRemove(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewFavoriteService(db)
	seedUser(t, db, 1)

	added, err := svc.AddPlanet(ctx, 1, 1)
	require.NoError(t, err)

	removed, err := svc.RemovePlanet(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, added.ID, removed.ID)

	_, err = svc.RemovePlanet(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrFavoriteNotFound)
}

func TestFavoriteRemoveMatchesTargetKind(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewFavoriteService(db)
	seedUser(t, db, 1)

	_, err := svc.AddPlanet(ctx, 1, 3)
	require.NoError(t, err)

	_, err = svc.RemovePeople(ctx, 1, 3)
	assert.ErrorIs(t, err, ErrFavoriteNotFound)

	_, err = svc.RemovePlanet(ctx, 2, 3)
	assert.ErrorIs(t, err, ErrFavoriteNotFound, "other users cannot remove the row")
}

func TestFavoriteDuplicatesAccumulate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewFavoriteService(db)
	seedUser(t, db, 1)

	first, err := svc.AddPeople(ctx, 1, 1)
	require.NoError(t, err)
	second, err := svc.AddPeople(ctx, 1, 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	removed, err := svc.RemovePeople(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, removed.ID, "oldest row goes first")

	favorites, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, second.ID, favorites[0].ID)
}

func TestFavoriteRejectsUnknownTarget(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewFavoriteService(db)

	_, err := svc.Add(ctx, 1, models.FavoriteTarget("starship"), 1)
	assert.ErrorIs(t, err, models.ErrInvalidFavoriteTarget)

	_, err = svc.Remove(ctx, 1, models.FavoriteTarget("starship"), 1)
	assert.ErrorIs(t, err, models.ErrInvalidFavoriteTarget)
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, database.Close(db))

	_, err := NewPlanetService(db).List(ctx)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = NewFavoriteService(db).AddPlanet(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
