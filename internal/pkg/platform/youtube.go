package platform

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const youtubeAPIBase = "https://www.googleapis.com/youtube/v3"

// youtubeChannelBatchMax is the API's per-call channel id limit; batching
// up to it conserves quota.
const youtubeChannelBatchMax = 50

// YouTubeClient reads the Data API v3 with a plain API key.
type YouTubeClient struct {
	http    *resty.Client
	apiKey  string
	apiBase string
}

func NewYouTubeClient(apiKey string) *YouTubeClient {
	return &YouTubeClient{
		http:    resty.New().SetTimeout(15 * time.Second),
		apiKey:  apiKey,
		apiBase: youtubeAPIBase,
	}
}

func (s *YouTubeClient) Platform() string {
	return "youtube"
}

type youtubeChannelList struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			CustomURL   string `json:"customUrl"`
			Country     string `json:"country"`
			Thumbnails  struct {
				Default struct {
					URL string `json:"url"`
				} `json:"default"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		Statistics struct {
			SubscriberCount string `json:"subscriberCount"`
			ViewCount       string `json:"viewCount"`
			VideoCount      string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// FetchProfile resolves one channel, by channel id ("UC...") or handle.
func (s *YouTubeClient) FetchProfile(ctx context.Context, identifier string) (*Profile, error) {
	param := "forHandle"
	if strings.HasPrefix(identifier, "UC") {
		param = "id"
	}

	profiles, err := s.fetchChannels(ctx, param, identifier)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, &NotFoundError{Platform: s.Platform(), Identifier: identifier}
	}
	return profiles[0], nil
}

// FetchChannels resolves up to 50 channel ids in a single call.
func (s *YouTubeClient) FetchChannels(ctx context.Context, channelIDs []string) ([]*Profile, error) {
	if len(channelIDs) > youtubeChannelBatchMax {
		channelIDs = channelIDs[:youtubeChannelBatchMax]
	}
	return s.fetchChannels(ctx, "id", strings.Join(channelIDs, ","))
}

func (s *YouTubeClient) fetchChannels(ctx context.Context, param, value string) ([]*Profile, error) {
	if s.apiKey == "" {
		return nil, &AuthError{Platform: s.Platform(), Reason: "missing API key"}
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part": "snippet,statistics",
			param:  value,
			"key":  s.apiKey,
		}).
		Get(s.apiBase + "/channels")
	if err != nil {
		return nil, errors.Wrap(err, "youtube channels request")
	}
	if resp.StatusCode() >= 400 {
		return nil, &UpstreamHTTPError{Platform: s.Platform(), Status: resp.StatusCode(), Body: resp.String()}
	}

	var list youtubeChannelList
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, &ParseError{Platform: s.Platform(), Detail: "channel list: " + err.Error()}
	}

	profiles := make([]*Profile, 0, len(list.Items))
	for _, item := range list.Items {
		subs := parseAPICount(item.Statistics.SubscriberCount)
		profiles = append(profiles, &Profile{
			Platform:     s.Platform(),
			PlatformID:   item.ID,
			Username:     strings.TrimPrefix(item.Snippet.CustomURL, "@"),
			DisplayName:  item.Snippet.Title,
			ProfileImage: item.Snippet.Thumbnails.Default.URL,
			Description:  item.Snippet.Description,
			Country:      item.Snippet.Country,
			Subscribers:  subs,
			Followers:    subs,
			TotalViews:   parseAPICount(item.Statistics.ViewCount),
			TotalPosts:   parseAPICount(item.Statistics.VideoCount),
		})
	}
	return profiles, nil
}

// SearchProfiles finds channels by query and backfills their statistics
// with one batched channels call.
func (s *YouTubeClient) SearchProfiles(ctx context.Context, query string, maxResults int) ([]*Profile, error) {
	if maxResults <= 0 || maxResults > youtubeChannelBatchMax {
		maxResults = youtubeChannelBatchMax
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"type":       "channel",
			"q":          query,
			"maxResults": strconv.Itoa(maxResults),
			"key":        s.apiKey,
		}).
		Get(s.apiBase + "/search")
	if err != nil {
		return nil, errors.Wrap(err, "youtube search request")
	}
	if resp.StatusCode() >= 400 {
		return nil, &UpstreamHTTPError{Platform: s.Platform(), Status: resp.StatusCode(), Body: resp.String()}
	}

	var result struct {
		Items []struct {
			ID struct {
				ChannelID string `json:"channelId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &ParseError{Platform: s.Platform(), Detail: "search list: " + err.Error()}
	}

	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.ChannelID != "" {
			ids = append(ids, item.ID.ChannelID)
		}
	}
	if len(ids) == 0 {
		return []*Profile{}, nil
	}

	return s.FetchChannels(ctx, ids)
}

func parseAPICount(s string) int64 {
	if s == "" {
		return 0
	}
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return value
}
