package scan

import (
	"context"
	"errors"
	"time"
)

var ErrScanNotFound = errors.New("scan not found")

// Status is the persisted processing state of one scan.
type Status string

const (
	StatusUploaded Status = "UPLOADED" // image stored, not yet parsed
	StatusParsing  Status = "PARSING"  // claimed by a worker
	StatusParsed   Status = "PARSED"
	StatusFailed   Status = "FAILED"
)

// Scan is one menu photo submission.
type Scan struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ImageURL  string    `json:"image_url"`
	Language  string    `json:"language"`
	Status    Status    `json:"status"`
	MenuID    *string   `json:"menu_id,omitempty"`
	Error     *string   `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines all database operations for scans.
type Repository interface {
	Create(ctx context.Context, s *Scan) error
	Get(ctx context.Context, id string) (*Scan, error)

	// ClaimPending atomically claims the oldest UPLOADED scan and
	// flips it to PARSING. Returns (nil, nil) when no work is waiting.
	ClaimPending(ctx context.Context) (*Scan, error)

	MarkParsed(ctx context.Context, id, menuID string) error
	MarkFailed(ctx context.Context, id, reason string) error

	// Retry resets a FAILED scan to UPLOADED so the worker picks it
	// up again.
	Retry(ctx context.Context, id string) error
}
