package platform

import "context"

// Profile is the canonical snapshot every client normalizes its platform
// response into. Numeric fields default to 0 when the platform omits
// them, except where absence is an upstream contract violation (see the
// Twitch follower total).
type Profile struct {
	Platform     string
	PlatformID   string
	Username     string
	DisplayName  string
	ProfileImage string
	Description  string
	Category     string
	Country      string

	// Subscribers and Followers are kept in sync for cross-platform
	// comparability. Kick is the exception: Subscribers there is the
	// paid active_subscribers_count.
	Subscribers int64
	Followers   int64

	// TotalViews holds the view count on YouTube and the like count on
	// TikTok.
	TotalViews int64
	TotalPosts int64
}

// Client fetches one creator's canonical profile snapshot. The
// identifier is the platform login/slug, not an internal id.
type Client interface {
	Platform() string
	FetchProfile(ctx context.Context, identifier string) (*Profile, error)
}

// Searcher is implemented by clients whose platform supports profile
// search.
type Searcher interface {
	SearchProfiles(ctx context.Context, query string, maxResults int) ([]*Profile, error)
}

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
