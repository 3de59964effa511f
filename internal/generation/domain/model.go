package domain

import "time"

// Generation is one persisted image generation. Rows are written exactly once,
// after the image URL has been confirmed to resolve to image content, and are
// never updated or deleted.
type Generation struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Prompt         string    `json:"prompt"`
	EnhancedPrompt string    `json:"enhanced_prompt"`
	ImageURL       string    `json:"image_url"`
	Seed           int       `json:"seed"`
	CreatedAt      time.Time `json:"created_at"`
}

// SeedRange is the exclusive upper bound for generation seeds.
const SeedRange = 1_000_000

// QueueItem tracks a single in-flight generation request. Items live in Redis
// only and expire a fixed retention delay after reaching a terminal state.
type QueueItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Prompt    string    `json:"prompt"`
	Status    string    `json:"status"`
	Readiness string    `json:"readiness,omitempty"` // ready, partial or failed, set on completion
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QueueItem status constants
const (
	StatusQueued     = "queued"
	StatusGenerating = "generating"
	StatusFinalizing = "finalizing"
	StatusComplete   = "complete"
	StatusFailed     = "failed"
)

// Terminal reports whether a status ends the queue item lifecycle.
func Terminal(status string) bool {
	return status == StatusComplete || status == StatusFailed
}

// GenerateResult is what the orchestrator returns to the caller.
type GenerateResult struct {
	RequestID      string `json:"requestId"`
	ImageURL       string `json:"imageUrl"`
	EnhancedPrompt string `json:"enhancedPrompt"`
	Seed           int    `json:"seed"`
}
