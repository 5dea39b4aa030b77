// Package platforms defines the adapter contract every platform client
// implements, plus the helpers shared between them. Each adapter translates
// one upstream API's response shapes into the canonical snapshot records;
// everything downstream of this package is platform-agnostic.
package platforms

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"

	errs "socialpulse/pkg/errors"
	"socialpulse/pkg/models"
)

// Adapter is the uniform surface of one platform client.
type Adapter interface {
	// Platform names the network this adapter talks to.
	Platform() models.Platform

	// FetchProfile retrieves the account-level snapshot for an identifier.
	FetchProfile(ctx context.Context, identifier string) (*models.ProfileSnapshot, error)

	// FetchPosts retrieves up to limit of the account's most recent posts
	// with their metric values at fetch time.
	FetchPosts(ctx context.Context, identifier string, limit int) ([]models.PostSnapshot, error)
}

// KeySource resolves a platform's API key at call time. Resolution is lazy:
// a missing key surfaces only when the platform is actually used.
type KeySource interface {
	APIKey(platform string) (string, error)
}

// Doer executes one upstream request under the engine's pacing and retry
// policy. Adapters route every HTTP call through it.
type Doer interface {
	Do(ctx context.Context, platform string, op func(ctx context.Context) error) error
}

// Direct is a Doer that applies no pacing or retry. Used in tests and when
// running a single ad-hoc fetch.
type Direct struct{}

func (Direct) Do(ctx context.Context, platform string, op func(ctx context.Context) error) error {
	return op(ctx)
}

// NormalizeUsername strips whitespace and a leading @ from a user-supplied
// identifier. Applied uniformly before any upstream call.
func NormalizeUsername(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "@")
}

// CheckResponse converts a resty transport error or non-2xx response into a
// typed collection error.
func CheckResponse(platform string, resp *resty.Response, err error) error {
	if err != nil {
		return errs.Transient(platform, "request failed: %v", err)
	}
	if resp.IsError() {
		return errs.FromStatusCode(platform, resp.StatusCode(), Truncate(resp.String(), 200))
	}
	return nil
}

// Truncate shortens a response body for error messages.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
