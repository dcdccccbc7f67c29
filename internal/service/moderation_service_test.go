package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fotomuro/api/internal/apperr"
	"fotomuro/api/internal/models"
)

const (
	testEvento = "demo2025"
	testHash   = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
)

var testFilename = testHash + ".webp"

type moderationEnv struct {
	store  *fakeBlobStore
	images *fakeImageStore
	logs   *fakeLogStore
	svc    *ModerationService
}

// newModerationEnv seeds one image in the given lifecycle folder with
// its thumbnail and metadata row.
func newModerationEnv(t *testing.T, state models.Lifecycle) *moderationEnv {
	t.Helper()
	env := &moderationEnv{
		store:  newFakeBlobStore(),
		images: newFakeImageStore(),
		logs:   &fakeLogStore{},
	}

	ctx := context.Background()
	require.NoError(t, env.store.Put(ctx, blobPath(testEvento, string(state), testFilename), []byte("img"), "image/webp", false))
	require.NoError(t, env.store.Put(ctx, thumbPath(testEvento, testFilename), []byte("thumb"), "image/webp", false))
	require.NoError(t, env.images.Create(ctx, models.ImageInfo{Hash: testHash, EventPrefix: testEvento, Description: "seeded"}))

	env.svc = NewModerationService(env.images, env.logs, env.store, zerolog.Nop())
	return env
}

func TestTransitionsFromValidState(t *testing.T) {
	cases := []struct {
		name   string
		start  models.Lifecycle
		run    func(env *moderationEnv) error
		endsIn models.Lifecycle
		action string
	}{
		{
			name:  "approve pending",
			start: models.LifecyclePending,
			run: func(env *moderationEnv) error {
				return env.svc.Approve(context.Background(), "mod@example.com", testFilename, testEvento)
			},
			endsIn: models.LifecycleApproved,
			action: models.ActionMoveToApproved,
		},
		{
			name:  "reject pending",
			start: models.LifecyclePending,
			run: func(env *moderationEnv) error {
				return env.svc.Reject(context.Background(), "mod@example.com", testFilename, testEvento)
			},
			endsIn: models.LifecycleRejected,
			action: models.ActionMoveToRejected,
		},
		{
			name:  "unreject",
			start: models.LifecycleRejected,
			run: func(env *moderationEnv) error {
				return env.svc.Move(context.Background(), "mod@example.com", testFilename, testEvento, models.LifecycleRejected, models.LifecycleApproved)
			},
			endsIn: models.LifecycleApproved,
			action: models.ActionMoveToApproved,
		},
		{
			name:  "un-approve",
			start: models.LifecycleApproved,
			run: func(env *moderationEnv) error {
				return env.svc.Move(context.Background(), "mod@example.com", testFilename, testEvento, models.LifecycleApproved, models.LifecycleRejected)
			},
			endsIn: models.LifecycleRejected,
			action: models.ActionMoveToRejected,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newModerationEnv(t, tc.start)

			require.NoError(t, tc.run(env))

			assert.True(t, env.store.has(blobPath(testEvento, string(tc.endsIn), testFilename)))
			assert.False(t, env.store.has(blobPath(testEvento, string(tc.start), testFilename)))

			entries := env.logs.withAction(tc.action)
			require.Len(t, entries, 1)
			assert.Equal(t, "mod@example.com", entries[0].Moderator)
			assert.Equal(t, folderPath(testEvento, string(tc.start)), entries[0].From)
			assert.Equal(t, folderPath(testEvento, string(tc.endsIn)), entries[0].To)
		})
	}
}

func TestTransitionFromWrongStateIsNotFound(t *testing.T) {
	// Image sits in approved; every transition expecting a different
	// source folder must report NotFound and move nothing.
	env := newModerationEnv(t, models.LifecycleApproved)

	err := env.svc.Approve(context.Background(), "mod@example.com", testFilename, testEvento)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	err = env.svc.Reject(context.Background(), "mod@example.com", testFilename, testEvento)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	assert.True(t, env.store.has(blobPath(testEvento, string(models.LifecycleApproved), testFilename)))
	assert.Empty(t, env.logs.entries)
}

func TestTransitionIntoOccupiedDestinationIsConflict(t *testing.T) {
	env := newModerationEnv(t, models.LifecyclePending)
	require.NoError(t, env.store.Put(context.Background(),
		blobPath(testEvento, string(models.LifecycleApproved), testFilename), []byte("other"), "image/webp", false))

	err := env.svc.Approve(context.Background(), "mod@example.com", testFilename, testEvento)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.True(t, env.store.has(blobPath(testEvento, string(models.LifecyclePending), testFilename)))
}

func TestTransitionWithoutModeratorIsUnauthorized(t *testing.T) {
	env := newModerationEnv(t, models.LifecyclePending)

	err := env.svc.Approve(context.Background(), "", testFilename, testEvento)
	require.Error(t, err)
	assert.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
	assert.Zero(t, env.store.moves)
	assert.Zero(t, env.store.deletes)
}

func TestDeleteRemovesBlobThumbnailAndRow(t *testing.T) {
	env := newModerationEnv(t, models.LifecycleApproved)

	require.NoError(t, env.svc.Delete(context.Background(), "mod@example.com", testFilename, testEvento, ""))

	assert.False(t, env.store.has(blobPath(testEvento, string(models.LifecycleApproved), testFilename)))
	assert.False(t, env.store.has(thumbPath(testEvento, testFilename)))
	_, err := env.images.GetByHash(context.Background(), testHash)
	require.Error(t, err)

	entries := env.logs.withAction(models.ActionDeleteImage)
	require.Len(t, entries, 1)
	assert.Equal(t, "none", entries[0].To)
}

func TestDeleteWithExplicitFolder(t *testing.T) {
	env := newModerationEnv(t, models.LifecycleRejected)

	require.NoError(t, env.svc.Delete(context.Background(), "mod@example.com", testFilename, testEvento, string(models.LifecycleRejected)))
	assert.False(t, env.store.has(blobPath(testEvento, string(models.LifecycleRejected), testFilename)))
}

func TestDeleteSucceedsWhenThumbnailAlreadyGone(t *testing.T) {
	env := newModerationEnv(t, models.LifecycleApproved)
	require.NoError(t, env.store.Delete(context.Background(), thumbPath(testEvento, testFilename)))

	require.NoError(t, env.svc.Delete(context.Background(), "mod@example.com", testFilename, testEvento, ""))
	assert.False(t, env.store.has(blobPath(testEvento, string(models.LifecycleApproved), testFilename)))
}

func TestDeleteSucceedsWhenMetadataRowAlreadyGone(t *testing.T) {
	env := newModerationEnv(t, models.LifecycleApproved)
	_, err := env.images.DeleteByHash(context.Background(), testHash)
	require.NoError(t, err)

	require.NoError(t, env.svc.Delete(context.Background(), "mod@example.com", testFilename, testEvento, ""))
	assert.False(t, env.store.has(blobPath(testEvento, string(models.LifecycleApproved), testFilename)))
}

func TestDeleteMissingImageIsNotFound(t *testing.T) {
	env := newModerationEnv(t, models.LifecycleApproved)

	err := env.svc.Delete(context.Background(), "mod@example.com", "0000.webp", testEvento, "")
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestTransitionRejectsPathEscapes(t *testing.T) {
	env := newModerationEnv(t, models.LifecyclePending)

	err := env.svc.Approve(context.Background(), "mod@example.com", "../sneaky.webp", testEvento)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	err = env.svc.Approve(context.Background(), "mod@example.com", testFilename, "a/b")
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}
