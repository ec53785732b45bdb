package collabController

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
)

func newTestController(t *testing.T) CollabControllerInterface {
	t.Helper()

	db, err := database.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := repositories.New(db)
	svcs := services.New(db)

	return New(repos, svcs, config.Config{}, db)
}

func TestSendCollabRequest(t *testing.T) {
	collabs := newTestController(t)
	ctx := context.Background()

	message := "join me"
	sent, err := collabs.Send(ctx, &SendCollabRequest{From: 1, To: 2, TrackID: 5, Message: &message})
	require.NoError(t, err)
	assert.Equal(t, int64(1), sent.ID)
	assert.Equal(t, CollabPending, sent.Status)
	assert.NotZero(t, sent.Timestamp)
}

func TestSendCollabRequest_PendingDedupe(t *testing.T) {
	collabs := newTestController(t)
	ctx := context.Background()

	first, err := collabs.Send(ctx, &SendCollabRequest{From: 1, To: 2, TrackID: 5})
	require.NoError(t, err)

	// A second request for the same triple is rejected while one is pending.
	_, err = collabs.Send(ctx, &SendCollabRequest{From: 1, To: 2, TrackID: 5})
	assert.ErrorIs(t, err, ErrConflict)

	// Different triple is fine.
	_, err = collabs.Send(ctx, &SendCollabRequest{From: 1, To: 2, TrackID: 6})
	require.NoError(t, err)

	// Resolving the pending request frees the triple again.
	resolved, err := collabs.Respond(ctx, first.ID, &RespondCollabRequest{Accept: true})
	require.NoError(t, err)
	assert.Equal(t, CollabAccepted, resolved.Status)

	again, err := collabs.Send(ctx, &SendCollabRequest{From: 1, To: 2, TrackID: 5})
	require.NoError(t, err)
	assert.Equal(t, CollabPending, again.Status)
}

func TestRespondCollabRequest(t *testing.T) {
	collabs := newTestController(t)
	ctx := context.Background()

	sent, err := collabs.Send(ctx, &SendCollabRequest{From: 1, To: 2, TrackID: 5})
	require.NoError(t, err)

	declined, err := collabs.Respond(ctx, sent.ID, &RespondCollabRequest{Accept: false})
	require.NoError(t, err)
	assert.Equal(t, CollabDeclined, declined.Status)

	// Declined is terminal.
	_, err = collabs.Respond(ctx, sent.ID, &RespondCollabRequest{Accept: true})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = collabs.Respond(ctx, 404, &RespondCollabRequest{Accept: true})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForUser(t *testing.T) {
	collabs := newTestController(t)
	ctx := context.Background()

	_, err := collabs.Send(ctx, &SendCollabRequest{From: 1, To: 2, TrackID: 5})
	require.NoError(t, err)
	_, err = collabs.Send(ctx, &SendCollabRequest{From: 3, To: 1, TrackID: 6})
	require.NoError(t, err)
	_, err = collabs.Send(ctx, &SendCollabRequest{From: 2, To: 3, TrackID: 7})
	require.NoError(t, err)

	// Both sides of the negotiation are listed, in insertion order.
	forOne, err := collabs.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, forOne, 2)
	assert.Equal(t, int64(1), forOne[0].ID)
	assert.Equal(t, int64(2), forOne[1].ID)

	forFour, err := collabs.ListForUser(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, forFour)
}
