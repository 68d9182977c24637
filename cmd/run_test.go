package cmd

import (
	"testing"
	"time"

	"github.com/spigell/ww-junior-hunter/internal/portal"
	"github.com/spigell/ww-junior-hunter/internal/ratings"
)

func TestBrowserConfigDefaults(t *testing.T) {
	got := browserConfig(nil)

	if got.LoginURL != defaultLoginURL {
		t.Errorf("login url: got %q", got.LoginURL)
	}
	if got.Selectors != (portal.Selectors{}) {
		t.Errorf("expected zero selectors, got %+v", got.Selectors)
	}
}

func TestBrowserConfigDecodesSelectorOverrides(t *testing.T) {
	cfg := &PortalConfig{
		LoginURL:    "https://portal.example/login",
		WaitTimeout: 7 * time.Second,
		Selectors: map[string]any{
			"posting-links": "table.searchResults a",
			"ratings-tab":   "Work Term Ratings",
		},
	}

	got := browserConfig(cfg)

	if got.LoginURL != "https://portal.example/login" {
		t.Errorf("login url: got %q", got.LoginURL)
	}
	if got.WaitTimeout != 7*time.Second {
		t.Errorf("wait timeout: got %s", got.WaitTimeout)
	}
	if got.Selectors.PostingLinks != "table.searchResults a" {
		t.Errorf("posting links selector: got %q", got.Selectors.PostingLinks)
	}
	if got.Selectors.RatingsTab != "Work Term Ratings" {
		t.Errorf("ratings tab: got %q", got.Selectors.RatingsTab)
	}
	if got.Selectors.DetailView != "" {
		t.Errorf("unexpected detail view override: %q", got.Selectors.DetailView)
	}
}

func TestHunterConfig(t *testing.T) {
	got := hunterConfig(&HuntConfig{Threshold: 25, Retries: 2, Pace: time.Second}, "resume text")

	if got.Threshold != 25 {
		t.Errorf("threshold: got %v", got.Threshold)
	}
	if got.Retries != 2 {
		t.Errorf("retries: got %d", got.Retries)
	}
	if got.Pace != time.Second {
		t.Errorf("pace: got %s", got.Pace)
	}
	if got.Resume != "resume text" {
		t.Errorf("resume: got %q", got.Resume)
	}
}

func TestHunterConfigNil(t *testing.T) {
	got := hunterConfig(nil, "")

	if got.Threshold != 0 {
		// the hunter itself falls back to ratings.DefaultThreshold
		t.Errorf("threshold: got %v, want 0 (hunter default is %v)", got.Threshold, ratings.DefaultThreshold)
	}
}
