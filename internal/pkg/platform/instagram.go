package platform

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

const instagramBase = "https://www.instagram.com"

var (
	// "1.2M Followers, 300 Following, 150 Posts - ..."
	instagramCountsRe    = regexp.MustCompile(`([\d.,]+[KMBkmb]?)\s+Followers?,\s+[\d.,]+[KMBkmb]?\s+Following,\s+([\d.,]+[KMBkmb]?)\s+Posts?`)
	instagramProfileIDRe = regexp.MustCompile(`profilePage_(\d+)`)
	instagramTitleRe     = regexp.MustCompile(`^(.*?)\s*\(@([A-Za-z0-9._]+)\)`)
)

// InstagramClient renders public profile pages with a headless browser.
// The counts only exist after client-side hydration, so unlike TikTok a
// plain HTTP GET will not find them. The browser is started lazily so
// processes that never touch Instagram pay nothing.
type InstagramClient struct {
	userAgent string
	timeout   time.Duration
	base      string

	once       sync.Once
	browserCtx context.Context
	cancel     context.CancelFunc
	startErr   error
}

func NewInstagramClient(userAgent string, timeout time.Duration) *InstagramClient {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &InstagramClient{
		userAgent: userAgent,
		timeout:   timeout,
		base:      instagramBase,
	}
}

func (s *InstagramClient) Platform() string {
	return "instagram"
}

func (s *InstagramClient) startBrowser() error {
	s.once.Do(func() {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("enable-automation", false),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.Flag("blink-settings", "imagesEnabled=false"),
			chromedp.UserAgent(s.userAgent),
		)

		allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
		browserCtx, cancel := chromedp.NewContext(allocCtx)

		if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
			cancel()
			s.startErr = errors.Wrap(err, "browser engine failed to start, is Chrome installed")
			return
		}

		s.browserCtx = browserCtx
		s.cancel = cancel
	})
	return s.startErr
}

func (s *InstagramClient) FetchProfile(ctx context.Context, identifier string) (*Profile, error) {
	if err := s.startBrowser(); err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, s.timeout)
	defer cancelTimeout()

	go cancelOnDone(ctx, tabCtx, cancelTab)

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(s.base+"/"+identifier+"/"),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, errors.Wrap(err, "instagram page render")
	}

	return s.parseProfile(identifier, html)
}

func (s *InstagramClient) parseProfile(identifier, html string) (*Profile, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{Platform: s.Platform(), Detail: "profile html: " + err.Error()}
	}

	if strings.Contains(doc.Find("title").Text(), "Page Not Found") {
		return nil, &NotFoundError{Platform: s.Platform(), Identifier: identifier}
	}

	description, _ := doc.Find(`meta[property="og:description"]`).Attr("content")
	counts := instagramCountsRe.FindStringSubmatch(description)
	if counts == nil {
		// Hydrated pages always carry the counts in og:description;
		// their absence means a block page or a layout change.
		return nil, &ParseError{Platform: s.Platform(), Detail: "follower counts absent after render"}
	}

	followers, err := ParseAbbrevNumber(counts[1])
	if err != nil {
		return nil, &ParseError{Platform: s.Platform(), Detail: "followers: " + err.Error()}
	}
	posts, err := ParseAbbrevNumber(counts[2])
	if err != nil {
		return nil, &ParseError{Platform: s.Platform(), Detail: "posts: " + err.Error()}
	}

	profile := &Profile{
		Platform:    s.Platform(),
		PlatformID:  identifier,
		Username:    identifier,
		Subscribers: followers,
		Followers:   followers,
		TotalPosts:  posts,
	}

	if match := instagramProfileIDRe.FindStringSubmatch(html); match != nil {
		profile.PlatformID = match[1]
	}

	title, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	if match := instagramTitleRe.FindStringSubmatch(title); match != nil {
		profile.DisplayName = match[1]
		profile.Username = strings.ToLower(match[2])
	}

	if image, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		profile.ProfileImage = image
	}

	return profile, nil
}

// cancelOnDone cancels the tab when the caller's context ends. It must
// also exit once the tab itself is done: callers may pass a context
// that is never cancelled, and waiting on it alone would leak one
// goroutine per fetch.
func cancelOnDone(ctx, tabCtx context.Context, cancelTab context.CancelFunc) {
	select {
	case <-ctx.Done():
		cancelTab()
	case <-tabCtx.Done():
	}
}

// Close shuts the browser down if it was ever started.
func (s *InstagramClient) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}
