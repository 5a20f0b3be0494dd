package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"framecraft-backend/internal/emailer"
	"framecraft-backend/internal/queue"
	"framecraft-backend/internal/store"
)

// Processor is plugged into the asynq worker loop. Email failures are
// returned so the queue retries them, but they never reach the user; the
// order already succeeded.
type Processor struct {
	mailer *emailer.Client
	store  store.SessionStore
}

// NewProcessor constructs a worker processor.
func NewProcessor(mailer *emailer.Client, sessions store.SessionStore) *Processor {
	return &Processor{mailer: mailer, store: sessions}
}

// Handler registers the confirmation email job handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.ConfirmationEmailTask, p.handleConfirmation)
	return mux
}

func (p *Processor) handleConfirmation(ctx context.Context, task *asynq.Task) error {
	var payload queue.ConfirmationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	order, err := p.store.LoadOrder(ctx, payload.SessionID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		// Session record is gone; nothing to email about.
		log.Printf("confirmation email skipped, no order for session %s", payload.SessionID)
		return nil
	}
	if order.EmailSent {
		log.Printf("confirmation email already sent for session %s", payload.SessionID)
		return nil
	}

	if err := p.mailer.SendConfirmation(ctx, payload.Params); err != nil {
		log.Printf("confirmation email failed for session %s: %v", payload.SessionID, err)
		return err
	}

	order.EmailSent = true
	if err := p.store.SaveOrder(ctx, payload.SessionID, order); err != nil {
		// The email went out; a bookkeeping failure must not retrigger it.
		log.Printf("failed to mark email sent for session %s: %v", payload.SessionID, err)
		return nil
	}

	log.Printf("confirmation email sent for session %s (reference %s)", payload.SessionID, payload.Reference)
	return nil
}
