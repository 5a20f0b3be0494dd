package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"framecraft-backend/internal/emailer"
)

const (
	// ConfirmationEmailTask is scheduled once a paid order is confirmed.
	ConfirmationEmailTask = "email:confirmation"
)

// ConfirmationPayload is serialized into the task so the worker knows
// which order the email belongs to and what to put in the template.
type ConfirmationPayload struct {
	SessionID string                     `json:"session_id"`
	Reference string                     `json:"reference"`
	Params    emailer.ConfirmationParams `json:"params"`
}

// EnqueueConfirmation enqueues a confirmation email job.
func EnqueueConfirmation(ctx context.Context, client *asynq.Client, payload ConfirmationPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(ConfirmationEmailTask, data)
	if _, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue confirmation task: %w", err)
	}
	return nil
}
