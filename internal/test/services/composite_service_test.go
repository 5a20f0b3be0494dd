package services_test

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"framecraft-backend/internal/compositor"
	"framecraft-backend/internal/models"
	"framecraft-backend/internal/services"
	"framecraft-backend/internal/store"
)

func photoPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	assert.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 50, 50))))
	return buf.Bytes()
}

func newService(sessions store.SessionStore) *services.CompositeService {
	renderer := compositor.NewRenderer(100, 125, compositor.NewEmbeddedLoader())
	return services.NewCompositeService(renderer, sessions)
}

func TestCompositeService_RendersAndCaches(t *testing.T) {
	ctx := context.Background()
	sessions := store.NewMemoryStore(0)
	svc := newService(sessions)

	_, err := sessions.SaveUpload(ctx, "s1", photoPNG(t), "image/png")
	assert.NoError(t, err)
	assert.NoError(t, sessions.SaveOrder(ctx, "s1", &models.Order{SessionID: "s1", FrameID: "frame-1"}))

	data, cached, degraded, err := svc.Ensure(ctx, "s1")
	assert.NoError(t, err)
	assert.False(t, cached)
	assert.False(t, degraded)
	assert.NotEmpty(t, data)

	// Second call serves the stored copy.
	again, cached, degraded, err := svc.Ensure(ctx, "s1")
	assert.NoError(t, err)
	assert.True(t, cached)
	assert.False(t, degraded)
	assert.Equal(t, data, again)

	order, err := sessions.LoadOrder(ctx, "s1")
	assert.NoError(t, err)
	assert.NotEmpty(t, order.CompositeRef)
}

func TestCompositeService_NoOrder(t *testing.T) {
	svc := newService(store.NewMemoryStore(0))

	_, _, _, err := svc.Ensure(context.Background(), "s1")
	assert.ErrorIs(t, err, services.ErrNoOrder)
}

func TestCompositeService_MissingUpload(t *testing.T) {
	ctx := context.Background()
	sessions := store.NewMemoryStore(0)
	svc := newService(sessions)

	assert.NoError(t, sessions.SaveOrder(ctx, "s1", &models.Order{SessionID: "s1", FrameID: "frame-1"}))

	_, _, _, err := svc.Ensure(ctx, "s1")
	assert.ErrorIs(t, err, compositor.ErrAssetLoad)
}

func TestCompositeService_QuotaDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	photo := photoPNG(t)
	// Budget fits the upload but leaves no room for the composite.
	sessions := store.NewMemoryStore(int64(len(photo)) + 16)
	svc := newService(sessions)

	_, err := sessions.SaveUpload(ctx, "s1", photo, "image/png")
	assert.NoError(t, err)
	assert.NoError(t, sessions.SaveOrder(ctx, "s1", &models.Order{SessionID: "s1", FrameID: "frame-2"}))

	data, cached, degraded, err := svc.Ensure(ctx, "s1")
	assert.NoError(t, err)
	assert.False(t, cached)
	assert.True(t, degraded)
	assert.NotEmpty(t, data)

	// The order stayed metadata-only and the next read regenerates.
	order, err := sessions.LoadOrder(ctx, "s1")
	assert.NoError(t, err)
	assert.Empty(t, order.CompositeRef)

	again, cached, degraded, err := svc.Ensure(ctx, "s1")
	assert.NoError(t, err)
	assert.False(t, cached)
	assert.True(t, degraded)
	assert.Equal(t, data, again)
}

func TestCompositeService_StaleRefRegenerates(t *testing.T) {
	ctx := context.Background()
	sessions := store.NewMemoryStore(0)
	svc := newService(sessions)

	_, err := sessions.SaveUpload(ctx, "s1", photoPNG(t), "image/png")
	assert.NoError(t, err)
	assert.NoError(t, sessions.SaveOrder(ctx, "s1", &models.Order{
		SessionID:    "s1",
		FrameID:      "frame-1",
		CompositeRef: "memory://sessions/s1/composite.png",
	}))

	// The ref points at a blob that was never stored.
	data, cached, _, err := svc.Ensure(ctx, "s1")
	assert.NoError(t, err)
	assert.False(t, cached)
	assert.NotEmpty(t, data)
}
