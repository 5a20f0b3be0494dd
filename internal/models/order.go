package models

import (
	"time"

	"framecraft-backend/internal/transform"
)

// CustomerInfo is collected at the payment step and used only to address
// the confirmation email.
type CustomerInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Order is the accumulated state of one session's purchase. It is the
// single record shared across flow steps and is accessed only through the
// session store with last-write-wins semantics.
//
// CompositeRef stays empty until a composite has been rendered and stored;
// when storing it fails on quota the order degrades to metadata only and
// the composite is regenerated on demand from UploadRef + Transform.
type Order struct {
	SessionID        string              `json:"session_id"`
	FrameID          string              `json:"frame_id"`
	UploadRef        string              `json:"upload_ref"`
	Transform        *transform.Snapshot `json:"transform,omitempty"`
	CompositeRef     string              `json:"composite_ref,omitempty"`
	Customer         *CustomerInfo       `json:"customer,omitempty"`
	PaymentReference string              `json:"payment_reference,omitempty"`
	IsProcessed      bool                `json:"is_processed"`
	EmailSent        bool                `json:"email_sent"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}
