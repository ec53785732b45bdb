package taskController

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

func newTestController(t *testing.T) TaskControllerInterface {
	t.Helper()

	db, err := database.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := repositories.New(db)
	svcs := services.New(db)

	return New(repos, svcs, config.Config{}, db)
}

func TestCreateTask(t *testing.T) {
	tasks := newTestController(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, &CreateTaskRequest{
		TrackID:     1,
		AssignedTo:  2,
		Description: "master the vocals",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), task.ID)
	assert.Equal(t, TaskOpen, task.Status)
	assert.NotZero(t, task.CreatedAt)

	_, err = tasks.Create(ctx, &CreateTaskRequest{TrackID: 1, AssignedTo: 2})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateTaskStatus_TransitionsUnconstrained(t *testing.T) {
	tasks := newTestController(t)
	ctx := context.Background()

	task, err := tasks.Create(ctx, &CreateTaskRequest{
		TrackID: 1, AssignedTo: 2, Description: "mix",
	})
	require.NoError(t, err)

	// Any valid status may follow any other, including leaving a terminal one.
	for _, status := range []TaskStatus{TaskCompleted, TaskOpen, TaskCancelled, TaskInProgress} {
		updated, err := tasks.UpdateStatus(ctx, task.ID, &UpdateTaskStatusRequest{Status: status})
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
		assert.GreaterOrEqual(t, updated.UpdatedAt, task.CreatedAt)
	}

	_, err = tasks.UpdateStatus(ctx, task.ID, &UpdateTaskStatusRequest{Status: "paused"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = tasks.UpdateStatus(ctx, 404, &UpdateTaskStatusRequest{Status: TaskOpen})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTasks(t *testing.T) {
	tasks := newTestController(t)
	ctx := context.Background()

	_, err := tasks.Create(ctx, &CreateTaskRequest{TrackID: 1, AssignedTo: 2, Description: "a"})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, &CreateTaskRequest{TrackID: 1, AssignedTo: 3, Description: "b"})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, &CreateTaskRequest{TrackID: 9, AssignedTo: 2, Description: "c"})
	require.NoError(t, err)

	byTrack, err := tasks.ListByTrack(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byTrack, 2)

	byAssignee, err := tasks.ListByAssignee(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, byAssignee, 2)

	none, err := tasks.ListByTrack(ctx, 404)
	require.NoError(t, err)
	assert.Empty(t, none)
}
