package model

import "time"

// CreatorRequest lifecycle states. Terminal states are never re-processed.
const (
	RequestStatusPending    = "pending"
	RequestStatusProcessing = "processing"
	RequestStatusCompleted  = "completed"
	RequestStatusFailed     = "failed"
)

// CreatorRequest is one user-submitted "please track this creator"
// request. Username is stored normalized (lowercased, stripped).
type CreatorRequest struct {
	ID           uint64  `gorm:"primaryKey" json:"id"`
	Platform     string  `gorm:"type:varchar(16);not null;index:idx_request_lookup" json:"platform"`
	Username     string  `gorm:"type:varchar(64);not null;index:idx_request_lookup" json:"username"`
	Status       string  `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`
	ErrorMessage *string `gorm:"type:varchar(512)" json:"errorMessage"`
	CreatedAt    time.Time
	ProcessedAt  *time.Time `json:"processedAt"`
}

func (CreatorRequest) TableName() string {
	return "creator_requests"
}
