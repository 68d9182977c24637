// Package portal defines the boundary to the employment portal: an ordered
// posting list and the per-posting view operations the hunter drives. The
// concrete implementation is a human-assisted browser session; login and MFA
// stay with the operator and are never automated.
package portal

import (
	"context"
	"errors"
)

// ErrViewUnavailable reports that a detail or ratings view did not become
// visible within its bounded wait, or disappeared mid-read. It is recoverable
// per posting: the hunter marks the posting failed and moves on.
var ErrViewUnavailable = errors.New("view unavailable")

// PostingRef identifies one job posting in the externally supplied listing.
// The ID is stable for the lifetime of the run only.
type PostingRef struct {
	ID    string
	Title string
}

// Session exposes the portal operations the hunter needs. Every method may
// fail with ErrViewUnavailable; blocking operations honor the context and are
// bounded, never indefinite.
type Session interface {
	// Postings enumerates the result list in page order.
	Postings(ctx context.Context) ([]PostingRef, error)
	// Open materializes the posting's detail view.
	Open(ctx context.Context, ref PostingRef) error
	// OpenRatings switches the open detail view to its ratings sub-view.
	OpenRatings(ctx context.Context) error
	// RatingsText pulls the raw text of the visible ratings sub-view.
	RatingsText(ctx context.Context) (string, error)
	// DescriptionText switches to the posting-information sub-view and pulls
	// its raw text. Only the optional resume fit step uses it.
	DescriptionText(ctx context.Context) (string, error)
	// Close dismisses the open detail view.
	Close(ctx context.Context) error
}
