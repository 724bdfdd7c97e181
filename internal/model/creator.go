package model

import "time"

// Platform values as stored in the creators table.
const (
	PlatformYouTube   = "youtube"
	PlatformTwitch    = "twitch"
	PlatformKick      = "kick"
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
)

// AllPlatforms lists every tracked platform.
var AllPlatforms = []string{
	PlatformYouTube,
	PlatformTwitch,
	PlatformKick,
	PlatformTikTok,
	PlatformInstagram,
}

// Creator is one tracked public profile on one platform. Identity is
// (platform, platform_id); username is mutable and must never be used
// for upsert matching.
type Creator struct {
	ID           uint64  `gorm:"primaryKey" json:"id"`
	Platform     string  `gorm:"type:varchar(16);not null;uniqueIndex:idx_platform_identity" json:"platform"`
	PlatformID   string  `gorm:"type:varchar(128);not null;uniqueIndex:idx_platform_identity" json:"platformId"`
	Username     string  `gorm:"type:varchar(128);not null;index" json:"username"`
	DisplayName  string  `gorm:"type:varchar(255)" json:"displayName"`
	ProfileImage string  `gorm:"type:varchar(1024)" json:"profileImage"`
	Description  string  `gorm:"type:text" json:"description"`
	Category     *string `gorm:"type:varchar(128)" json:"category"`
	Country      *string `gorm:"type:varchar(64)" json:"country"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Creator) TableName() string {
	return "creators"
}
