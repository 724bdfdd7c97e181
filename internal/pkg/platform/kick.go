package platform

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	kickAPIBase  = "https://api.kick.com/public/v1"
	kickTokenURL = "https://id.kick.com/oauth/token"
)

// KickClient reads the public Kick API with an app access token.
type KickClient struct {
	http    *resty.Client
	tokens  *TokenCache
	apiBase string
}

func NewKickClient(clientID, clientSecret string) *KickClient {
	return &KickClient{
		http:    resty.New().SetTimeout(15 * time.Second),
		tokens:  NewTokenCache("kick", kickTokenURL, clientID, clientSecret),
		apiBase: kickAPIBase,
	}
}

func (s *KickClient) Platform() string {
	return "kick"
}

func (s *KickClient) FetchProfile(ctx context.Context, identifier string) (*Profile, error) {
	token, err := s.tokens.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("slug", identifier).
		Get(s.apiBase + "/channels")
	if err != nil {
		return nil, errors.Wrap(err, "kick channels request")
	}
	if resp.StatusCode() >= 400 {
		return nil, &UpstreamHTTPError{Platform: s.Platform(), Status: resp.StatusCode(), Body: resp.String()}
	}

	var channels struct {
		Data []struct {
			BroadcasterUserID  int64  `json:"broadcaster_user_id"`
			Slug               string `json:"slug"`
			ChannelDescription string `json:"channel_description"`
			BannerPicture      string `json:"banner_picture"`
			FollowersCount     int64  `json:"followers_count"`
			// Paid subscriptions, not followers. Stored under its own
			// meaning in the subscribers column.
			ActiveSubscribersCount int64 `json:"active_subscribers_count"`
			Category               struct {
				Name string `json:"name"`
			} `json:"category"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &channels); err != nil {
		return nil, &ParseError{Platform: s.Platform(), Detail: "channels response: " + err.Error()}
	}
	if len(channels.Data) == 0 {
		return nil, &NotFoundError{Platform: s.Platform(), Identifier: identifier}
	}

	ch := channels.Data[0]
	return &Profile{
		Platform:     s.Platform(),
		PlatformID:   strconv.FormatInt(ch.BroadcasterUserID, 10),
		Username:     ch.Slug,
		DisplayName:  ch.Slug,
		ProfileImage: ch.BannerPicture,
		Description:  ch.ChannelDescription,
		Category:     ch.Category.Name,
		Subscribers:  ch.ActiveSubscribersCount,
		Followers:    ch.FollowersCount,
	}, nil
}
