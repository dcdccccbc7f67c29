package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"fotomuro/api/internal/models"
)

func TestReconcileSweepCompletesOverMixedState(t *testing.T) {
	ctx := context.Background()

	store := newFakeBlobStore()
	events := newFakeEventStore()
	images := newFakeImageStore()

	require.NoError(t, events.Create(ctx, models.Event{ID: "ev1", Name: "Demo", PathPrefix: "demo2025"}))

	// One consistent image, one orphan blob, one dangling row.
	require.NoError(t, store.Put(ctx, "demo2025/pending/aaa.webp", []byte("x"), "image/webp", false))
	require.NoError(t, images.Create(ctx, models.ImageInfo{Hash: "aaa", EventPrefix: "demo2025"}))
	require.NoError(t, store.Put(ctx, "demo2025/approved/bbb.webp", []byte("x"), "image/webp", false))
	require.NoError(t, images.Create(ctx, models.ImageInfo{Hash: "ccc", EventPrefix: "demo2025"}))

	svc := NewReconcileService(events, images, store, zerolog.Nop())
	require.NoError(t, svc.Run(ctx))
}
