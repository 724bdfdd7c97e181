package platform

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	twitchAPIBase  = "https://api.twitch.tv/helix"
	twitchTokenURL = "https://id.twitch.tv/oauth2/token"
)

// TwitchClient reads the Helix API with an app access token.
type TwitchClient struct {
	http     *resty.Client
	tokens   *TokenCache
	clientID string
	apiBase  string
}

func NewTwitchClient(clientID, clientSecret string) *TwitchClient {
	return &TwitchClient{
		http:     resty.New().SetTimeout(15 * time.Second),
		tokens:   NewTokenCache("twitch", twitchTokenURL, clientID, clientSecret),
		clientID: clientID,
		apiBase:  twitchAPIBase,
	}
}

func (s *TwitchClient) Platform() string {
	return "twitch"
}

type twitchUser struct {
	ID              string `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"display_name"`
	Description     string `json:"description"`
	ProfileImageURL string `json:"profile_image_url"`
	ViewCount       int64  `json:"view_count"`
}

func (s *TwitchClient) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	token, err := s.tokens.GetToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Client-Id", s.clientID).
		SetAuthToken(token).
		SetQueryParams(params).
		Get(s.apiBase + path)
	if err != nil {
		return nil, errors.Wrapf(err, "twitch %s request", path)
	}
	if resp.StatusCode() >= 400 {
		return nil, &UpstreamHTTPError{Platform: s.Platform(), Status: resp.StatusCode(), Body: resp.String()}
	}
	return resp.Body(), nil
}

// FetchProfile resolves a login and its follower total. The follower
// endpoint's "total" field is part of the API contract; its absence is
// surfaced as a ParseError, never masked as zero.
func (s *TwitchClient) FetchProfile(ctx context.Context, identifier string) (*Profile, error) {
	body, err := s.get(ctx, "/users", map[string]string{"login": identifier})
	if err != nil {
		return nil, err
	}

	var users struct {
		Data []twitchUser `json:"data"`
	}
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, &ParseError{Platform: s.Platform(), Detail: "users response: " + err.Error()}
	}
	if len(users.Data) == 0 {
		return nil, &NotFoundError{Platform: s.Platform(), Identifier: identifier}
	}

	user := users.Data[0]
	followers, err := s.fetchFollowerTotal(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		Platform:     s.Platform(),
		PlatformID:   user.ID,
		Username:     user.Login,
		DisplayName:  user.DisplayName,
		ProfileImage: user.ProfileImageURL,
		Description:  user.Description,
		Subscribers:  followers,
		Followers:    followers,
		TotalViews:   user.ViewCount,
	}, nil
}

func (s *TwitchClient) fetchFollowerTotal(ctx context.Context, broadcasterID string) (int64, error) {
	body, err := s.get(ctx, "/channels/followers", map[string]string{
		"broadcaster_id": broadcasterID,
		"first":          "1",
	})
	if err != nil {
		return 0, err
	}

	var followers struct {
		Total *int64 `json:"total"`
	}
	if err := json.Unmarshal(body, &followers); err != nil {
		return 0, &ParseError{Platform: s.Platform(), Detail: "followers response: " + err.Error()}
	}
	if followers.Total == nil {
		return 0, &ParseError{Platform: s.Platform(), Detail: "followers response missing total field"}
	}
	return *followers.Total, nil
}

// SearchProfiles searches channels and fans out one follower-total call
// per result of the already-returned page, awaited together.
func (s *TwitchClient) SearchProfiles(ctx context.Context, query string, maxResults int) ([]*Profile, error) {
	if maxResults <= 0 || maxResults > 20 {
		maxResults = 20
	}

	body, err := s.get(ctx, "/search/channels", map[string]string{
		"query": query,
		"first": strconv.Itoa(maxResults),
	})
	if err != nil {
		return nil, err
	}

	var search struct {
		Data []struct {
			ID               string `json:"id"`
			BroadcasterLogin string `json:"broadcaster_login"`
			DisplayName      string `json:"display_name"`
			GameName         string `json:"game_name"`
			ThumbnailURL     string `json:"thumbnail_url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, &ParseError{Platform: s.Platform(), Detail: "search response: " + err.Error()}
	}

	profiles := make([]*Profile, len(search.Data))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range search.Data {
		profiles[i] = &Profile{
			Platform:     s.Platform(),
			PlatformID:   item.ID,
			Username:     item.BroadcasterLogin,
			DisplayName:  item.DisplayName,
			Category:     item.GameName,
			ProfileImage: item.ThumbnailURL,
		}
		p := profiles[i]
		broadcasterID := item.ID
		g.Go(func() error {
			total, err := s.fetchFollowerTotal(gctx, broadcasterID)
			if err != nil {
				return err
			}
			p.Followers = total
			p.Subscribers = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return profiles, nil
}
