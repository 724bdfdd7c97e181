package platform

import (
	"bytes"
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const tiktokBase = "https://www.tiktok.com"

// tiktokHydrationSelector is the script tag carrying TikTok's
// server-rendered hydration payload. No browser is needed; the data is
// already in the HTML.
const tiktokHydrationSelector = `script#__UNIVERSAL_DATA_FOR_REHYDRATION__`

// TikTokClient scrapes public profile pages over plain HTTP.
type TikTokClient struct {
	http *resty.Client
	base string
}

func NewTikTokClient(userAgent string, timeout time.Duration) *TikTokClient {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &TikTokClient{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent).
			SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
			SetHeader("Accept-Language", "en-US,en;q=0.9"),
		base: tiktokBase,
	}
}

func (s *TikTokClient) Platform() string {
	return "tiktok"
}

type tiktokHydration struct {
	DefaultScope struct {
		UserDetail struct {
			StatusCode int `json:"statusCode"`
			UserInfo   struct {
				User struct {
					ID           string `json:"id"`
					UniqueID     string `json:"uniqueId"`
					Nickname     string `json:"nickname"`
					AvatarLarger string `json:"avatarLarger"`
					Signature    string `json:"signature"`
					Region       string `json:"region"`
				} `json:"user"`
				Stats struct {
					FollowerCount int64 `json:"followerCount"`
					HeartCount    int64 `json:"heartCount"`
					VideoCount    int64 `json:"videoCount"`
				} `json:"stats"`
			} `json:"userInfo"`
		} `json:"webapp.user-detail"`
	} `json:"__DEFAULT_SCOPE__"`
}

func (s *TikTokClient) FetchProfile(ctx context.Context, identifier string) (*Profile, error) {
	resp, err := s.http.R().
		SetContext(ctx).
		Get(s.base + "/@" + identifier)
	if err != nil {
		return nil, errors.Wrap(err, "tiktok profile request")
	}
	if resp.StatusCode() == 404 {
		return nil, &NotFoundError{Platform: s.Platform(), Identifier: identifier}
	}
	if resp.StatusCode() >= 400 {
		return nil, &UpstreamHTTPError{Platform: s.Platform(), Status: resp.StatusCode(), Body: resp.String()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, &ParseError{Platform: s.Platform(), Detail: "profile html: " + err.Error()}
	}

	payload := doc.Find(tiktokHydrationSelector).Text()
	if payload == "" {
		// The script tag is gone: site structure changed, not an empty
		// result.
		return nil, &ParseError{Platform: s.Platform(), Detail: "hydration payload missing from profile page"}
	}

	var hydration tiktokHydration
	if err := json.Unmarshal([]byte(payload), &hydration); err != nil {
		return nil, &ParseError{Platform: s.Platform(), Detail: "hydration payload: " + err.Error()}
	}

	detail := hydration.DefaultScope.UserDetail
	if detail.UserInfo.User.ID == "" {
		if detail.StatusCode != 0 {
			return nil, &NotFoundError{Platform: s.Platform(), Identifier: identifier}
		}
		return nil, &ParseError{Platform: s.Platform(), Detail: "hydration payload has no user detail"}
	}

	user := detail.UserInfo.User
	stats := detail.UserInfo.Stats
	return &Profile{
		Platform:     s.Platform(),
		PlatformID:   user.ID,
		Username:     user.UniqueID,
		DisplayName:  user.Nickname,
		ProfileImage: user.AvatarLarger,
		Description:  user.Signature,
		Country:      user.Region,
		Subscribers:  stats.FollowerCount,
		Followers:    stats.FollowerCount,
		// The series stores TikTok likes in the total_views column.
		TotalViews: stats.HeartCount,
		TotalPosts: stats.VideoCount,
	}, nil
}
