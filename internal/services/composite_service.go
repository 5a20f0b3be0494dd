package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"framecraft-backend/internal/compositor"
	"framecraft-backend/internal/models"
	"framecraft-backend/internal/store"
)

// ErrNoOrder reports that the session has no order to render for.
var ErrNoOrder = errors.New("services: no order for session")

// CompositeService produces and caches the final composite for a session.
// When the cached composite cannot be stored within the session budget the
// order degrades to metadata only and the image is regenerated from the
// original upload and transform on every read.
type CompositeService struct {
	renderer *compositor.Renderer
	store    store.SessionStore
}

func NewCompositeService(renderer *compositor.Renderer, sessions store.SessionStore) *CompositeService {
	return &CompositeService{renderer: renderer, store: sessions}
}

// Ensure returns the session's composite, rendering it if no cached copy
// exists. cached reports that a stored copy was reused; degraded reports
// that the fresh render could not be persisted (quota) and the order
// stayed metadata-only.
func (s *CompositeService) Ensure(ctx context.Context, sessionID string) (png []byte, cached, degraded bool, err error) {
	order, err := s.store.LoadOrder(ctx, sessionID)
	if err != nil {
		return nil, false, false, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, false, false, ErrNoOrder
	}

	if order.CompositeRef != "" {
		data, err := s.store.LoadComposite(ctx, sessionID)
		if err != nil {
			return nil, false, false, fmt.Errorf("load composite: %w", err)
		}
		if data != nil {
			return data, true, false, nil
		}
		// The ref went stale; fall through and regenerate.
	}

	png, err = s.render(ctx, order)
	if err != nil {
		return nil, false, false, err
	}

	ref, err := s.store.SaveComposite(ctx, sessionID, png)
	if errors.Is(err, store.ErrQuotaExceeded) {
		// Recoverable: keep the order metadata-only and hand the
		// render back; it will be regenerated on the next read.
		log.Printf("composite for session %s exceeds storage budget, degrading to regenerate-on-demand", sessionID)
		return png, false, true, nil
	}
	if err != nil {
		return nil, false, false, fmt.Errorf("save composite: %w", err)
	}

	order.CompositeRef = ref
	if err := s.store.SaveOrder(ctx, sessionID, order); err != nil {
		return nil, false, false, fmt.Errorf("save order: %w", err)
	}
	return png, false, false, nil
}

func (s *CompositeService) render(ctx context.Context, order *models.Order) ([]byte, error) {
	frame, ok := models.FrameByID(order.FrameID)
	if !ok {
		return nil, fmt.Errorf("unknown frame %q", order.FrameID)
	}
	photo, err := s.store.LoadUpload(ctx, order.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load upload: %w", err)
	}
	if photo == nil {
		return nil, fmt.Errorf("%w: upload record missing", compositor.ErrAssetLoad)
	}
	return s.renderer.Render(ctx, frame, photo, order.Transform)
}
