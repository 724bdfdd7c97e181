package model

import "time"

// CreatorStat is one day's recorded metrics for a creator, keyed by
// (creator_id, recorded_at). A second write for the same day overwrites.
//
// Subscribers and Followers carry the same follower-equivalent value on
// every platform except Kick, where Subscribers is the paid-subscriber
// count. TotalViews is the view count on YouTube and the like count on
// TikTok.
type CreatorStat struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	CreatorID   uint64 `gorm:"not null;uniqueIndex:idx_creator_day" json:"creatorId"`
	RecordedAt  string `gorm:"type:date;not null;uniqueIndex:idx_creator_day" json:"recordedAt"`
	Subscribers int64  `gorm:"not null;default:0" json:"subscribers"`
	Followers   int64  `gorm:"not null;default:0" json:"followers"`
	TotalViews  int64  `gorm:"not null;default:0" json:"totalViews"`
	TotalPosts  int64  `gorm:"not null;default:0" json:"totalPosts"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (CreatorStat) TableName() string {
	return "creator_stats"
}
