package types

import (
	"testing"
	"time"
)

func TestShareToken_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		expireAt int64
		want     bool
	}{
		{
			name:     "zero means never expires",
			expireAt: 0,
			want:     false,
		},
		{
			name:     "future expiry still valid",
			expireAt: now.Add(time.Hour).Unix(),
			want:     false,
		},
		{
			name:     "past expiry",
			expireAt: now.Add(-time.Hour).Unix(),
			want:     true,
		},
		{
			name:     "expiry boundary counts as expired",
			expireAt: now.Unix(),
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &ShareToken{ExpireAt: tt.expireAt}
			if got := token.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShareToken_ViewsExhausted(t *testing.T) {
	tests := []struct {
		name      string
		maxViews  int
		viewCount int
		want      bool
	}{
		{
			name:      "zero means unlimited",
			maxViews:  0,
			viewCount: 10000,
			want:      false,
		},
		{
			name:      "under the ceiling",
			maxViews:  3,
			viewCount: 2,
			want:      false,
		},
		{
			name:      "at the ceiling",
			maxViews:  3,
			viewCount: 3,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &ShareToken{MaxViews: tt.maxViews, ViewCount: tt.viewCount}
			if got := token.ViewsExhausted(); got != tt.want {
				t.Errorf("ViewsExhausted() = %v, want %v", got, tt.want)
			}
		})
	}
}
