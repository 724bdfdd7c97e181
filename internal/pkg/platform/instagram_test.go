package platform

import (
	"context"
	"testing"
	"time"
)

const instagramProfileHTML = `<!DOCTYPE html>
<html><head>
<title>Nova (@nova.daily) &#x2022; Instagram photos and videos</title>
<meta property="og:title" content="Nova (@nova.daily) • Instagram photos and videos" />
<meta property="og:description" content="1.2M Followers, 301 Following, 154 Posts - See Instagram photos and videos from Nova (@nova.daily)" />
<meta property="og:image" content="https://ig.example.com/pic.jpg" />
</head><body>
<script>window.__additionalData = {"profilePage_987654321":{}};</script>
</body></html>`

func TestInstagramParseProfile(t *testing.T) {
	c := NewInstagramClient("", 0)
	profile, err := c.parseProfile("nova.daily", instagramProfileHTML)
	if err != nil {
		t.Fatalf("parseProfile: %v", err)
	}
	if profile.Followers != 1_200_000 || profile.Subscribers != 1_200_000 {
		t.Errorf("followers = %d/%d", profile.Followers, profile.Subscribers)
	}
	if profile.TotalPosts != 154 {
		t.Errorf("TotalPosts = %d", profile.TotalPosts)
	}
	if profile.PlatformID != "987654321" {
		t.Errorf("PlatformID = %q, profilePage id not extracted", profile.PlatformID)
	}
	if profile.DisplayName != "Nova" || profile.Username != "nova.daily" {
		t.Errorf("identity = %q/%q", profile.DisplayName, profile.Username)
	}
	if profile.ProfileImage != "https://ig.example.com/pic.jpg" {
		t.Errorf("ProfileImage = %q", profile.ProfileImage)
	}
}

func TestInstagramParseProfileWithoutCounts(t *testing.T) {
	c := NewInstagramClient("", 0)
	_, err := c.parseProfile("nova.daily", `<html><head><title>Login</title></head><body></body></html>`)
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("got %T (%v), want *ParseError", err, err)
	}
}

func TestCancelOnDoneExitsWhenTabFinishes(t *testing.T) {
	// The runner contexts are never cancelled, so the watcher must not
	// wait on the caller's context alone.
	tabCtx, finishTab := context.WithCancel(context.Background())

	exited := make(chan struct{})
	go func() {
		cancelOnDone(context.Background(), tabCtx, func() {})
		close(exited)
	}()

	finishTab()
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("watcher goroutine still running after the tab finished")
	}
}

func TestCancelOnDoneCancelsTabOnCallerCancel(t *testing.T) {
	callerCtx, cancelCaller := context.WithCancel(context.Background())
	tabCtx, finishTab := context.WithCancel(context.Background())
	defer finishTab()

	cancelled := make(chan struct{})
	go cancelOnDone(callerCtx, tabCtx, func() { close(cancelled) })

	cancelCaller()
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("tab not cancelled after the caller's context ended")
	}
}

func TestInstagramParseProfileNotFoundPage(t *testing.T) {
	c := NewInstagramClient("", 0)
	_, err := c.parseProfile("ghost", `<html><head><title>Page Not Found &#x2022; Instagram</title></head><body></body></html>`)
	if !IsNotFound(err) {
		t.Fatalf("got %v, want not-found", err)
	}
}
