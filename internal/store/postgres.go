package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"framecraft-backend/internal/models"
	"framecraft-backend/internal/objectstore"
	"framecraft-backend/internal/transform"
)

// PostgresStore is the production SessionStore: order metadata in
// Postgres, blobs in object storage under a per-session prefix. The quota
// applies to the blobs only; metadata is small and must never fail
// silently.
type PostgresStore struct {
	db      *sql.DB
	objects *objectstore.Storage
	quota   int64
}

func NewPostgresStore(connectionString string, objects *objectstore.Storage, quota int64) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{db: db, objects: objects, quota: quota}, nil
}

func uploadKey(sessionID string) string    { return "sessions/" + sessionID + "/upload" }
func compositeKey(sessionID string) string { return "sessions/" + sessionID + "/composite.png" }
func sessionPrefix(sessionID string) string { return "sessions/" + sessionID + "/" }

func (s *PostgresStore) SaveUpload(ctx context.Context, sessionID string, data []byte, contentType string) (string, error) {
	if err := s.checkQuota(ctx, sessionID, uploadKey(sessionID), len(data)); err != nil {
		return "", err
	}
	if err := s.objects.Put(ctx, uploadKey(sessionID), data, contentType); err != nil {
		return "", err
	}
	return uploadKey(sessionID), nil
}

func (s *PostgresStore) LoadUpload(ctx context.Context, sessionID string) ([]byte, error) {
	return s.objects.Get(ctx, uploadKey(sessionID))
}

func (s *PostgresStore) SaveOrder(ctx context.Context, sessionID string, order *models.Order) error {
	var transformJSON, customerJSON []byte
	var err error
	if order.Transform != nil {
		if transformJSON, err = json.Marshal(order.Transform); err != nil {
			return fmt.Errorf("failed to encode transform: %w", err)
		}
	}
	if order.Customer != nil {
		if customerJSON, err = json.Marshal(order.Customer); err != nil {
			return fmt.Errorf("failed to encode customer: %w", err)
		}
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO orders (session_id, frame_id, upload_ref, transform, composite_ref, customer, payment_reference, is_processed, email_sent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (session_id) DO UPDATE SET
			frame_id = EXCLUDED.frame_id,
			upload_ref = EXCLUDED.upload_ref,
			transform = EXCLUDED.transform,
			composite_ref = EXCLUDED.composite_ref,
			customer = EXCLUDED.customer,
			payment_reference = EXCLUDED.payment_reference,
			is_processed = EXCLUDED.is_processed,
			email_sent = EXCLUDED.email_sent,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`, sessionID, order.FrameID, order.UploadRef, transformJSON,
		nullString(order.CompositeRef), customerJSON,
		nullString(order.PaymentReference), order.IsProcessed, order.EmailSent,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}
	order.SessionID = sessionID
	return nil
}

func (s *PostgresStore) LoadOrder(ctx context.Context, sessionID string) (*models.Order, error) {
	var (
		order         models.Order
		transformJSON []byte
		customerJSON  []byte
		compositeRef  sql.NullString
		paymentRef    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT session_id, frame_id, upload_ref, transform, composite_ref, customer, payment_reference, is_processed, email_sent, created_at, updated_at
		FROM orders
		WHERE session_id = $1
	`, sessionID).Scan(
		&order.SessionID, &order.FrameID, &order.UploadRef, &transformJSON,
		&compositeRef, &customerJSON, &paymentRef,
		&order.IsProcessed, &order.EmailSent, &order.CreatedAt, &order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	order.CompositeRef = compositeRef.String
	order.PaymentReference = paymentRef.String
	if len(transformJSON) > 0 {
		var t transform.Snapshot
		if err := json.Unmarshal(transformJSON, &t); err != nil {
			// Malformed records read as absent.
			log.Printf("Warning: malformed transform for session %s: %v", sessionID, err)
			return nil, nil
		}
		order.Transform = &t
	}
	if len(customerJSON) > 0 {
		var cu models.CustomerInfo
		if err := json.Unmarshal(customerJSON, &cu); err != nil {
			log.Printf("Warning: malformed customer for session %s: %v", sessionID, err)
			return nil, nil
		}
		order.Customer = &cu
	}
	return &order, nil
}

func (s *PostgresStore) SaveComposite(ctx context.Context, sessionID string, data []byte) (string, error) {
	if err := s.checkQuota(ctx, sessionID, compositeKey(sessionID), len(data)); err != nil {
		return "", err
	}
	if err := s.objects.Put(ctx, compositeKey(sessionID), data, "image/png"); err != nil {
		return "", err
	}
	return compositeKey(sessionID), nil
}

func (s *PostgresStore) LoadComposite(ctx context.Context, sessionID string) ([]byte, error) {
	return s.objects.Get(ctx, compositeKey(sessionID))
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// checkQuota rejects a blob write that would push the session past its
// byte budget. The record being replaced does not count against itself.
func (s *PostgresStore) checkQuota(ctx context.Context, sessionID, key string, size int) error {
	if s.quota <= 0 {
		return nil
	}
	used, err := s.objects.PrefixUsage(ctx, sessionPrefix(sessionID))
	if err != nil {
		return err
	}
	existing, err := s.objects.StatSize(ctx, key)
	if err != nil {
		return err
	}
	if existing > 0 {
		used -= existing
	}
	if used+int64(size) > s.quota {
		return ErrQuotaExceeded
	}
	return nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
