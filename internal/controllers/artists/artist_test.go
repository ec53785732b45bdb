package artistController

import (
	"context"
	"testing"
	"trackforge/config"
	"trackforge/internal/database"
	. "trackforge/internal/models"
	"trackforge/internal/repositories"
	"trackforge/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"
)

type testEnv struct {
	db      database.DB
	repos   repositories.Repository
	svcs    services.Service
	artists ArtistControllerInterface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := repositories.New(db)
	svcs := services.New(db)

	return &testEnv{
		db:      db,
		repos:   repos,
		svcs:    svcs,
		artists: New(repos, svcs, config.Config{}, db, nil),
	}
}

func (env *testEnv) creditBalance(t *testing.T, artistID, amount int64) {
	t.Helper()

	err := env.svcs.Transaction.Execute(context.Background(), func(ctx context.Context, tx *gorm.DB) error {
		artist, err := env.repos.Artist.GetByIDTx(ctx, tx, artistID)
		if err != nil {
			return err
		}
		artist.RoyaltyBalance += amount
		return env.repos.Artist.Save(ctx, tx, artist)
	})
	require.NoError(t, err)
}

func TestRegisterArtist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	social := "https://example.com/a"
	first, err := env.artists.Register(ctx, &RegisterArtistRequest{
		Name:   "A",
		Bio:    "bio",
		Social: &social,
		Links:  []string{"https://example.com/a/music"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "A", first.Name)
	assert.Equal(t, int64(0), first.RoyaltyBalance)

	second, err := env.artists.Register(ctx, &RegisterArtistRequest{Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	_, err = env.artists.Register(ctx, &RegisterArtistRequest{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetArtist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.artists.Register(ctx, &RegisterArtistRequest{Name: "A"})
	require.NoError(t, err)

	loaded, err := env.artists.Get(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Name, loaded.Name)

	_, err = env.artists.Get(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateArtist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.artists.Register(ctx, &RegisterArtistRequest{Name: "A", Bio: "old"})
	require.NoError(t, err)

	updated, err := env.artists.Update(ctx, registered.ID, &UpdateArtistRequest{
		Name: "A2",
		Bio:  "new",
	})
	require.NoError(t, err)
	assert.Equal(t, "A2", updated.Name)
	assert.Equal(t, "new", updated.Bio)

	_, err = env.artists.Update(ctx, registered.ID, &UpdateArtistRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.artists.Update(ctx, 404, &UpdateArtistRequest{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListArtists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := env.artists.Register(ctx, &RegisterArtistRequest{Name: name})
		require.NoError(t, err)
	}

	artists, err := env.artists.List(ctx)
	require.NoError(t, err)
	require.Len(t, artists, 3)
	assert.Equal(t, int64(1), artists[0].ID)
	assert.Equal(t, int64(3), artists[2].ID)
}

func TestGetRoyaltyBalance_UnknownArtistIsZero(t *testing.T) {
	env := newTestEnv(t)

	balance, err := env.artists.GetRoyaltyBalance(context.Background(), 404)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestWithdraw(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	registered, err := env.artists.Register(ctx, &RegisterArtistRequest{Name: "A"})
	require.NoError(t, err)
	env.creditBalance(t, registered.ID, 100)

	// Zero, negative, and overdraft amounts all fail and leave the balance
	// untouched. A negative amount must not credit the balance.
	for _, amount := range []int64{0, -50, 101} {
		_, err = env.artists.Withdraw(ctx, registered.ID, &WithdrawRequest{Amount: amount})
		assert.ErrorIs(t, err, ErrValidation)

		balance, err := env.artists.GetRoyaltyBalance(ctx, registered.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), balance)
	}

	withdrawn, err := env.artists.Withdraw(ctx, registered.ID, &WithdrawRequest{Amount: 60})
	require.NoError(t, err)
	assert.Equal(t, int64(40), withdrawn.RoyaltyBalance)

	_, err = env.artists.Withdraw(ctx, 404, &WithdrawRequest{Amount: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	activities, err := env.repos.Activity.ListByUser(ctx, registered.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, ActionWithdrawRoyalties, activities[0].Action)
	assert.Equal(t, "Withdrew 60 tokens", activities[0].Details)
}
