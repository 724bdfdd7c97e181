package platform

import (
	"context"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	// tokenExpirySkew keeps a token out of use well before the upstream
	// considers it stale, covering clock drift and in-flight latency.
	tokenExpirySkew = 300 * time.Second

	tokenRetryAttempts = 2
	tokenRetryDelay    = 3 * time.Second
)

// TokenCache holds one client-credentials bearer token and its expiry.
// One instance is owned by each OAuth-backed client and shared across
// that client's fetches within the process. Safe for concurrent use.
type TokenCache struct {
	mu sync.Mutex

	http         *resty.Client
	platform     string
	tokenURL     string
	clientID     string
	clientSecret string

	token     string
	expiresAt time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func NewTokenCache(platform, tokenURL, clientID, clientSecret string) *TokenCache {
	return &TokenCache{
		http:         resty.New().SetTimeout(15 * time.Second),
		platform:     platform,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
		sleep:        time.Sleep,
	}
}

// GetToken returns the cached token when still valid, otherwise performs
// a client-credentials grant. Transient upstream failures are retried up
// to two more times with a fixed delay; anything else propagates
// immediately.
func (s *TokenCache) GetToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expiresAt) {
		return s.token, nil
	}

	if s.clientID == "" || s.clientSecret == "" {
		return "", &AuthError{Platform: s.platform, Reason: "missing client credentials"}
	}

	var lastErr error
	for attempt := 0; attempt <= tokenRetryAttempts; attempt++ {
		if attempt > 0 {
			s.sleep(tokenRetryDelay)
		}

		resp, err := s.http.R().
			SetContext(ctx).
			SetFormData(map[string]string{
				"client_id":     s.clientID,
				"client_secret": s.clientSecret,
				"grant_type":    "client_credentials",
			}).
			Post(s.tokenURL)
		if err != nil {
			return "", errors.Wrapf(err, "%s token request", s.platform)
		}

		if resp.StatusCode() >= 400 {
			body := resp.String()
			if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
				return "", &AuthError{Platform: s.platform, Reason: truncate(body, 200)}
			}
			lastErr = &UpstreamHTTPError{Platform: s.platform, Status: resp.StatusCode(), Body: body}
			if IsTransientUpstream(body) {
				continue
			}
			return "", lastErr
		}

		var grant struct {
			AccessToken string `json:"access_token"`
			ExpiresIn   int64  `json:"expires_in"`
		}
		if err := json.Unmarshal(resp.Body(), &grant); err != nil {
			return "", &ParseError{Platform: s.platform, Detail: "token response: " + err.Error()}
		}
		if grant.AccessToken == "" {
			return "", &ParseError{Platform: s.platform, Detail: "token response missing access_token"}
		}

		s.token = grant.AccessToken
		s.expiresAt = s.now().Add(time.Duration(grant.ExpiresIn)*time.Second - tokenExpirySkew)
		return s.token, nil
	}

	return "", lastErr
}
