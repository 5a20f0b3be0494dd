// Package store is the durable record of one session's order flow. It
// holds three named records per session: the raw uploaded photo, the order
// document, and optionally the rendered composite for reuse across steps.
package store

import (
	"context"
	"errors"

	"framecraft-backend/internal/models"
)

// ErrQuotaExceeded reports that writing a blob would exceed the session's
// storage budget. Composite saves treat it as a recoverable degradation;
// anything that cannot proceed without the blob treats it as fatal.
var ErrQuotaExceeded = errors.New("store: session storage quota exceeded")

// SessionStore persists the order flow records. Implementations provide
// last-write-wins semantics; the flow is strictly sequential so there are
// no concurrent writers to reconcile.
//
// LoadOrder is best-effort: absent or malformed data yields (nil, nil),
// never an error the caller has to recover from. Load of an absent blob
// also yields (nil, nil).
type SessionStore interface {
	SaveUpload(ctx context.Context, sessionID string, data []byte, contentType string) (ref string, err error)
	LoadUpload(ctx context.Context, sessionID string) ([]byte, error)

	SaveOrder(ctx context.Context, sessionID string, order *models.Order) error
	LoadOrder(ctx context.Context, sessionID string) (*models.Order, error)

	SaveComposite(ctx context.Context, sessionID string, data []byte) (ref string, err error)
	LoadComposite(ctx context.Context, sessionID string) ([]byte, error)
}
