package errors

import (
	"fmt"
	"testing"
)

func TestFromStatusCode(t *testing.T) {
	tests := []struct {
		code     int
		expected Kind
	}{
		{0, KindTransient},
		{401, KindAuth},
		{403, KindAuth},
		{404, KindNotFound},
		{429, KindRateLimit},
		{500, KindTransient},
		{502, KindTransient},
		{503, KindTransient},
		{400, KindUnknown},
		{418, KindUnknown},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("status %d", test.code), func(t *testing.T) {
			err := FromStatusCode("instagram", test.code, "")
			if err.Kind != test.expected {
				t.Errorf("Expected kind %s, got %s", test.expected, err.Kind)
			}
			if err.Code != test.code {
				t.Errorf("Expected code %d, got %d", test.code, err.Code)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"transient", Transient("tiktok", "timeout"), true},
		{"rate limit", RateLimit("tiktok", "slow down"), true},
		{"auth", Auth("tiktok", "bad key"), false},
		{"not found", NotFound("tiktok", "gone"), false},
		{"validation", Validation("tiktok", "bad record"), false},
		{"plain error", fmt.Errorf("something"), false},
		{"nil", nil, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsRetryable(test.err); got != test.retryable {
				t.Errorf("IsRetryable = %v, expected %v", got, test.retryable)
			}
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := RateLimit("youtube", "quota exceeded")
	wrapped := fmt.Errorf("fetching posts: %w", inner)

	if KindOf(wrapped) != KindRateLimit {
		t.Errorf("Expected rate_limit kind through wrapping, got %s", KindOf(wrapped))
	}
	if !IsRetryable(wrapped) {
		t.Error("Expected wrapped rate limit error to stay retryable")
	}
}

func TestErrorMessageIncludesPlatform(t *testing.T) {
	err := Auth("twitter", "key rejected")
	msg := err.Error()
	if msg != "twitter auth error (code 0): key rejected" {
		t.Errorf("Unexpected message: %s", msg)
	}
}
