package trackController

import (
	"context"
	"testing"
	"trackforge/config"
	artistController "trackforge/internal/controllers/artists"
	"trackforge/internal/database"
	. "trackforge/internal/models"
	"trackforge/internal/repositories"
	"trackforge/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db      database.DB
	repos   repositories.Repository
	tracks  TrackControllerInterface
	artists artistController.ArtistControllerInterface
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
		tracks:  New(repos, svcs, config.Config{}, db, nil),
		artists: artistController.New(repos, svcs, config.Config{}, db, nil),
	}
}

func (env *testEnv) registerArtist(t *testing.T, name string) *Artist {
	t.Helper()

	artist, err := env.artists.Register(context.Background(), &artistController.RegisterArtistRequest{
		Name: name,
	})
	require.NoError(t, err)
	return artist
}

func (env *testEnv) createTrack(t *testing.T, contributors ...int64) *Track {
	t.Helper()

	track, err := env.tracks.Create(context.Background(), &CreateTrackRequest{
		Title:        "Song",
		Description:  "Desc",
		Contributors: contributors,
	})
	require.NoError(t, err)
	return track
}

func TestCreateTrack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	track := env.createTrack(t, 1, 2)

	assert.Equal(t, int64(1), track.ID)
	assert.Equal(t, int64(1), track.Version)
	assert.Equal(t, VisibilityPublic, track.Visibility)

	for _, contributor := range []int64{1, 2} {
		role, ok := track.RoleOf(contributor)
		assert.True(t, ok)
		assert.Equal(t, RoleOwner, role)
	}

	versions, err := env.tracks.ListVersions(ctx, track.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, int64(1), versions[0].Version)
	assert.Equal(t, "Song", versions[0].Title)

	activities, err := env.repos.Activity.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, ActionCreateTrack, activities[0].Action)
	assert.Equal(t, "Track 1 created", activities[0].Details)
}

func TestCreateTrack_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		request CreateTrackRequest
	}{
		{"empty title", CreateTrackRequest{Description: "Desc", Contributors: []int64{1}}},
		{"empty description", CreateTrackRequest{Title: "Song", Contributors: []int64{1}}},
		{"no contributors", CreateTrackRequest{Title: "Song", Description: "Desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.tracks.Create(ctx, &tt.request)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestDistributePayment_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.registerArtist(t, "A")
	b := env.registerArtist(t, "B")
	require.Equal(t, int64(1), a.ID)
	require.Equal(t, int64(2), b.ID)

	track := env.createTrack(t, a.ID, b.ID)

	_, err := env.tracks.SetSplits(ctx, track.ID, &SetSplitsRequest{
		Splits: []Split{{ArtistID: a.ID, Pct: 70}, {ArtistID: b.ID, Pct: 30}},
	})
	require.NoError(t, err)

	paid, err := env.tracks.DistributePayment(ctx, track.ID, &DistributePaymentRequest{
		Payer: 99, Amount: 100, Timestamp: 0,
	})
	require.NoError(t, err)
	require.Len(t, paid.Payments, 1)
	assert.Equal(t, int64(99), paid.Payments[0].Payer)
	assert.Equal(t, int64(100), paid.Payments[0].Amount)

	balanceA, err := env.artists.GetRoyaltyBalance(ctx, a.ID)
	require.NoError(t, err)
	balanceB, err := env.artists.GetRoyaltyBalance(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(70), balanceA)
	assert.Equal(t, int64(30), balanceB)
}

func TestDistributePayment_OverDistributionAllowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.registerArtist(t, "A")
	b := env.registerArtist(t, "B")
	track := env.createTrack(t, a.ID, b.ID)

	_, err := env.tracks.SetSplits(ctx, track.ID, &SetSplitsRequest{
		Splits: []Split{{ArtistID: a.ID, Pct: 100}, {ArtistID: b.ID, Pct: 50}},
	})
	require.NoError(t, err)

	_, err = env.tracks.DistributePayment(ctx, track.ID, &DistributePaymentRequest{
		Payer: 99, Amount: 100,
	})
	require.NoError(t, err)

	balanceA, _ := env.artists.GetRoyaltyBalance(ctx, a.ID)
	balanceB, _ := env.artists.GetRoyaltyBalance(ctx, b.ID)
	assert.Equal(t, int64(150), balanceA+balanceB)
}

func TestDistributePayment_TruncationRemainderLost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.registerArtist(t, "A")
	b := env.registerArtist(t, "B")
	track := env.createTrack(t, a.ID, b.ID)

	_, err := env.tracks.SetSplits(ctx, track.ID, &SetSplitsRequest{
		Splits: []Split{{ArtistID: a.ID, Pct: 33}, {ArtistID: b.ID, Pct: 33}},
	})
	require.NoError(t, err)

	// 10 * 33 / 100 truncates to 3 per share; 4 of the 10 units go nowhere.
	_, err = env.tracks.DistributePayment(ctx, track.ID, &DistributePaymentRequest{
		Payer: 99, Amount: 10,
	})
	require.NoError(t, err)

	balanceA, _ := env.artists.GetRoyaltyBalance(ctx, a.ID)
	balanceB, _ := env.artists.GetRoyaltyBalance(ctx, b.ID)
	assert.Equal(t, int64(3), balanceA)
	assert.Equal(t, int64(3), balanceB)
}

func TestDistributePayment_UnknownSplitArtistStillRecordsPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.registerArtist(t, "A")
	track := env.createTrack(t, a.ID)

	_, err := env.tracks.SetSplits(ctx, track.ID, &SetSplitsRequest{
		Splits: []Split{{ArtistID: a.ID, Pct: 50}, {ArtistID: 777, Pct: 50}},
	})
	require.NoError(t, err)

	paid, err := env.tracks.DistributePayment(ctx, track.ID, &DistributePaymentRequest{
		Payer: 99, Amount: 100,
	})
	require.NoError(t, err)
	assert.Len(t, paid.Payments, 1)

	balanceA, _ := env.artists.GetRoyaltyBalance(ctx, a.ID)
	assert.Equal(t, int64(50), balanceA)
}

func TestDistributePayment_NonPositiveAmountRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.registerArtist(t, "A")
	track := env.createTrack(t, a.ID)

	_, err := env.tracks.SetSplits(ctx, track.ID, &SetSplitsRequest{
		Splits: []Split{{ArtistID: a.ID, Pct: 100}},
	})
	require.NoError(t, err)

	// A negative amount would debit the split artists; it must fail before
	// the fan-out and leave no payment record.
	for _, amount := range []int64{0, -100} {
		_, err = env.tracks.DistributePayment(ctx, track.ID, &DistributePaymentRequest{
			Payer: 99, Amount: amount,
		})
		assert.ErrorIs(t, err, ErrValidation)
	}

	balanceA, err := env.artists.GetRoyaltyBalance(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balanceA)

	history, err := env.tracks.PaymentHistory(ctx, track.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDistributePayment_Failures(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tracks.DistributePayment(ctx, 404, &DistributePaymentRequest{Payer: 1, Amount: 10})
	assert.ErrorIs(t, err, ErrNotFound)

	track := env.createTrack(t, 1)
	_, err = env.tracks.DistributePayment(ctx, track.ID, &DistributePaymentRequest{Payer: 1, Amount: 10})
	assert.ErrorIs(t, err, ErrValidation)

	history, err := env.tracks.PaymentHistory(ctx, track.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestAddVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	track := env.createTrack(t, 1)

	updated, err := env.tracks.AddVersion(ctx, track.ID, &AddVersionRequest{
		Title:        "Song v2",
		Description:  "Remaster",
		Contributors: []int64{1, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, "Song v2", updated.Title)

	versions, err := env.tracks.ListVersions(ctx, track.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, int64(1), versions[0].Version)
	assert.Equal(t, "Song", versions[0].Title)
	assert.Equal(t, int64(2), versions[1].Version)
	assert.Equal(t, "Song v2", versions[1].Title)

	_, err = env.tracks.AddVersion(ctx, 404, &AddVersionRequest{Title: "x", Description: "y"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListVersions_UnknownTrackIsEmpty(t *testing.T) {
	env := newTestEnv(t)

	versions, err := env.tracks.ListVersions(context.Background(), 404)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestUpdate_DoesNotTouchVersionLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	track := env.createTrack(t, 1)

	updated, err := env.tracks.Update(ctx, track.ID, &UpdateTrackRequest{
		Title:        "Renamed",
		Description:  "New desc",
		Contributors: []int64{1, 3},
		Version:      7,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.Version)
	assert.Equal(t, "Renamed", updated.Title)

	versions, err := env.tracks.ListVersions(ctx, track.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestDeleteTrack_CascadesAndNeverReusesIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	track := env.createTrack(t, 1)
	_, err := env.tracks.AddVersion(ctx, track.ID, &AddVersionRequest{Title: "v2", Description: "d"})
	require.NoError(t, err)

	require.NoError(t, env.tracks.Delete(ctx, track.ID))

	_, err = env.tracks.Get(ctx, track.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	versions, err := env.tracks.ListVersions(ctx, track.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)

	assert.ErrorIs(t, env.tracks.Delete(ctx, track.ID), ErrNotFound)

	next := env.createTrack(t, 1)
	assert.Equal(t, int64(2), next.ID)
}

func TestRateTrack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	track := env.createTrack(t, 1)

	_, err := env.tracks.Rate(ctx, track.ID, &RateTrackRequest{UserID: 10, Rating: 2})
	require.NoError(t, err)

	// Re-rating overwrites instead of duplicating.
	_, err = env.tracks.Rate(ctx, track.ID, &RateTrackRequest{UserID: 10, Rating: 4})
	require.NoError(t, err)

	_, err = env.tracks.Rate(ctx, track.ID, &RateTrackRequest{UserID: 11, Rating: 5})
	require.NoError(t, err)

	rating, err := env.tracks.GetRating(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rating.Count)
	assert.Equal(t, int64(4), rating.Average)

	userRating, err := env.tracks.GetUserRating(ctx, track.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), userRating)

	_, err = env.tracks.GetUserRating(ctx, track.ID, 12)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, invalid := range []int64{0, 6, -1} {
		_, err = env.tracks.Rate(ctx, track.ID, &RateTrackRequest{UserID: 10, Rating: invalid})
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestTagsAreASet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	track := env.createTrack(t, 1)

	_, err := env.tracks.AddTag(ctx, track.ID, &TagRequest{Tag: "lofi"})
	require.NoError(t, err)
	_, err = env.tracks.AddTag(ctx, track.ID, &TagRequest{Tag: "lofi"})
	require.NoError(t, err)
	tagged, err := env.tracks.AddTag(ctx, track.ID, &TagRequest{Tag: "chill"})
	require.NoError(t, err)
	assert.Equal(t, []string{"lofi", "chill"}, []string(tagged.Tags))

	removed, err := env.tracks.RemoveTag(ctx, track.ID, "lofi")
	require.NoError(t, err)
	assert.Equal(t, []string{"chill"}, []string(removed.Tags))
}

func TestVisibilityInviteAndRoles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	track := env.createTrack(t, 1)

	visibility, err := env.tracks.GetVisibility(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, VisibilityPublic, visibility)

	_, err = env.tracks.SetVisibility(ctx, track.ID, &VisibilityRequest{Visibility: VisibilityInviteOnly})
	require.NoError(t, err)

	_, err = env.tracks.SetVisibility(ctx, track.ID, &VisibilityRequest{Visibility: "hidden"})
	assert.ErrorIs(t, err, ErrValidation)

	invited, err := env.tracks.Invite(ctx, track.ID, &InviteRequest{UserID: 42})
	require.NoError(t, err)
	invited, err = env.tracks.Invite(ctx, track.ID, &InviteRequest{UserID: 42})
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, []int64(invited.Invited))

	// Role upsert keeps one entry per user.
	roled, err := env.tracks.AssignRole(ctx, track.ID, &AssignRoleRequest{UserID: 1, Role: RoleViewer})
	require.NoError(t, err)
	assert.Len(t, roled.Roles, 1)

	role, err := env.tracks.GetUserRole(ctx, track.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, role)

	_, err = env.tracks.GetUserRole(ctx, track.ID, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenre(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	track := env.createTrack(t, 1)

	_, err := env.tracks.GetGenre(ctx, track.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.tracks.SetGenre(ctx, track.ID, &GenreRequest{Genre: "jazz"})
	require.NoError(t, err)

	genre, err := env.tracks.GetGenre(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, "jazz", genre)
}

func TestCommentsAndActivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	track := env.createTrack(t, 1)

	_, err := env.tracks.AddComment(ctx, track.ID, &AddCommentRequest{Commenter: 5, Text: "nice"})
	require.NoError(t, err)

	_, err = env.tracks.AddComment(ctx, track.ID, &AddCommentRequest{Commenter: 5, Text: ""})
	assert.ErrorIs(t, err, ErrValidation)

	comments, err := env.tracks.ListComments(ctx, track.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, int64(5), comments[0].Commenter)

	activities, err := env.repos.Activity.ListByUser(ctx, 5)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, ActionAddComment, activities[0].Action)
	assert.Equal(t, "Commented on track 1: nice", activities[0].Details)
}

func TestAnalytics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.registerArtist(t, "A")
	track := env.createTrack(t, a.ID)

	_, err := env.tracks.SetSplits(ctx, track.ID, &SetSplitsRequest{
		Splits: []Split{{ArtistID: a.ID, Pct: 100}},
	})
	require.NoError(t, err)

	for _, amount := range []int64{100, 50} {
		_, err = env.tracks.DistributePayment(ctx, track.ID, &DistributePaymentRequest{
			Payer: 99, Amount: amount,
		})
		require.NoError(t, err)
	}

	_, err = env.tracks.AddComment(ctx, track.ID, &AddCommentRequest{Commenter: 5, Text: "nice"})
	require.NoError(t, err)
	_, err = env.tracks.Rate(ctx, track.ID, &RateTrackRequest{UserID: 5, Rating: 4})
	require.NoError(t, err)
	_, err = env.tracks.Rate(ctx, track.ID, &RateTrackRequest{UserID: 6, Rating: 5})
	require.NoError(t, err)

	for range 3 {
		_, err = env.tracks.IncrementPlayCount(ctx, track.ID)
		require.NoError(t, err)
	}

	analytics, err := env.tracks.Analytics(ctx, track.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), analytics.Revenue)
	assert.Equal(t, int64(1), analytics.CommentsCount)
	assert.Equal(t, int64(2), analytics.RatingsCount)
	assert.Equal(t, int64(4), analytics.AvgRating)
	assert.Equal(t, int64(3), analytics.PlayCount)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.tracks.Create(ctx, &CreateTrackRequest{
		Title: "Midnight Drive", Description: "d", Contributors: []int64{1},
	})
	require.NoError(t, err)
	second, err := env.tracks.Create(ctx, &CreateTrackRequest{
		Title: "Sunrise", Description: "d", Contributors: []int64{2},
	})
	require.NoError(t, err)

	_, err = env.tracks.AddTag(ctx, first.ID, &TagRequest{Tag: "night"})
	require.NoError(t, err)
	_, err = env.tracks.SetGenre(ctx, second.ID, &GenreRequest{Genre: "ambient"})
	require.NoError(t, err)

	byTitle, err := env.tracks.Search(ctx, &SearchTracksRequest{Title: "midnight"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, first.ID, byTitle[0].ID)

	contributor := int64(2)
	byContributor, err := env.tracks.Search(ctx, &SearchTracksRequest{Contributor: &contributor})
	require.NoError(t, err)
	require.Len(t, byContributor, 1)
	assert.Equal(t, second.ID, byContributor[0].ID)

	byTag, err := env.tracks.Search(ctx, &SearchTracksRequest{Tag: "night"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, first.ID, byTag[0].ID)

	byGenre, err := env.tracks.Search(ctx, &SearchTracksRequest{Genre: "ambient"})
	require.NoError(t, err)
	require.Len(t, byGenre, 1)
	assert.Equal(t, second.ID, byGenre[0].ID)

	all, err := env.tracks.Search(ctx, &SearchTracksRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDownloadable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	track := env.createTrack(t, 1)
	assert.False(t, track.Downloadable)

	updated, err := env.tracks.SetDownloadable(ctx, track.ID, &DownloadableRequest{Downloadable: true})
	require.NoError(t, err)
	assert.True(t, updated.Downloadable)
}
