// Package hunter drives the per-posting state machine over the portal
// session: open the detail view, switch to the ratings tab, extract and
// classify, record matches, close, advance.
package hunter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spigell/ww-junior-hunter/internal/ai"
	"github.com/spigell/ww-junior-hunter/internal/ledger"
	"github.com/spigell/ww-junior-hunter/internal/portal"
	"github.com/spigell/ww-junior-hunter/internal/ratings"
	"github.com/spigell/ww-junior-hunter/internal/utils"
	"go.uber.org/zap"
)

type state int

const (
	statePending state = iota
	stateOpening
	stateTabSwitching
	stateExtracting
	stateClassified
	stateClosing
	stateDone
	stateFailed
)

func (s state) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateOpening:
		return "opening"
	case stateTabSwitching:
		return "tab_switching"
	case stateExtracting:
		return "extracting"
	case stateClassified:
		return "classified"
	case stateClosing:
		return "closing"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Store is the result store the hunter records matches into. The file-backed
// ledger satisfies it in production; tests inject an in-memory substitute.
type Store interface {
	Seen(label string) bool
	Record(e ledger.Entry) error
}

// Config tunes the hunt.
type Config struct {
	// Threshold the junior score must strictly exceed. Zero or negative
	// falls back to the default.
	Threshold float64
	// Retries is how many fresh reopens a posting gets after a view
	// failure before it is skipped.
	Retries int
	// Pace is the pause between postings, to keep the session looking
	// human.
	Pace time.Duration
	// Resume is the operator's resume text for the optional fit check.
	Resume string
}

// Summary is the terminal report of one run. Failed postings count as
// processed.
type Summary struct {
	Processed int
	Matched   int
	Failed    int
	Skipped   int
	FailedIDs []string
}

// Hunter processes postings strictly sequentially. The single browser
// session is not shareable, so there is no worker pool by design of the
// portal, not of this code.
type Hunter struct {
	session portal.Session
	store   Store
	matcher ai.Matcher
	cfg     Config
	logger  *zap.Logger
}

// New creates a Hunter. matcher may be nil to skip the resume fit step.
func New(session portal.Session, store Store, matcher ai.Matcher, cfg Config, logger *zap.Logger) *Hunter {
	if cfg.Threshold <= 0 {
		cfg.Threshold = ratings.DefaultThreshold
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Hunter{
		session: session,
		store:   store,
		matcher: matcher,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run pulls postings from the session in listing order and processes them one
// at a time. A posting failing on an unavailable view is reported and
// skipped; a ledger failure aborts the run immediately, since silently losing
// matches defeats the point.
func (h *Hunter) Run(ctx context.Context) (*Summary, error) {
	refs, err := h.session.Postings(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerating postings: %w", err)
	}

	h.logger.Info("starting the hunt",
		zap.Int("postings", len(refs)),
		zap.Float64("threshold", h.cfg.Threshold),
	)

	summary := &Summary{}
	for i, ref := range refs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		entry := ledger.Entry{ID: ref.ID, Title: ref.Title}
		if h.store.Seen(entry.Label()) {
			h.logger.Info("skipping posting recorded in a previous run",
				zap.String("posting_id", ref.ID),
				zap.String("title", ref.Title),
			)
			summary.Skipped++
			continue
		}

		h.logger.Info("processing posting",
			zap.Int("position", i+1),
			zap.Int("total", len(refs)),
			zap.String("posting_id", ref.ID),
			zap.String("title", ref.Title),
		)

		cls, err := h.processWithRetry(ctx, ref)
		summary.Processed++
		if err != nil {
			if errors.Is(err, portal.ErrViewUnavailable) {
				summary.Failed++
				summary.FailedIDs = append(summary.FailedIDs, ref.ID)
				h.logger.Warn("posting failed, moving on",
					zap.String("posting_id", ref.ID),
					zap.Error(err),
				)
				continue
			}
			return summary, err
		}

		if cls.Match {
			summary.Matched++
		}

		if h.cfg.Pace > 0 && i < len(refs)-1 {
			if err := utils.WaitFor(ctx, h.cfg.Pace); err != nil {
				return summary, err
			}
		}
	}

	h.logger.Info("hunt finished",
		zap.Int("processed", summary.Processed),
		zap.Int("matched", summary.Matched),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Strings("failed_postings", summary.FailedIDs),
	)

	return summary, nil
}

// processWithRetry gives a failed posting a fresh open up to the configured
// retry budget. Only view failures are retried.
func (h *Hunter) processWithRetry(ctx context.Context, ref portal.PostingRef) (ratings.Classification, error) {
	var (
		cls ratings.Classification
		err error
	)

	for attempt := 0; attempt <= h.cfg.Retries; attempt++ {
		if attempt > 0 {
			h.logger.Info("retrying posting with a fresh open",
				zap.String("posting_id", ref.ID),
				zap.Int("attempt", attempt+1),
			)
		}

		cls, err = h.process(ctx, ref)
		if err == nil || !errors.Is(err, portal.ErrViewUnavailable) {
			return cls, err
		}
	}

	return cls, err
}

// process walks one posting through the state machine. A collaborator
// failure in OPENING, TAB_SWITCHING or EXTRACTING moves the posting to
// FAILED; the detail view is dismissed best-effort on the way out so the next
// posting starts from the listing.
func (h *Hunter) process(ctx context.Context, ref portal.PostingRef) (ratings.Classification, error) {
	var (
		cls ratings.Classification
		raw string
	)

	st := stateOpening
	for {
		switch st {
		case stateOpening:
			if err := h.session.Open(ctx, ref); err != nil {
				return cls, h.fail(ref, st, err)
			}
			st = stateTabSwitching

		case stateTabSwitching:
			if err := h.session.OpenRatings(ctx); err != nil {
				h.dismiss(ctx, ref)
				return cls, h.fail(ref, st, err)
			}
			st = stateExtracting

		case stateExtracting:
			text, err := h.session.RatingsText(ctx)
			if err != nil {
				h.dismiss(ctx, ref)
				return cls, h.fail(ref, st, err)
			}
			raw = text
			st = stateClassified

		case stateClassified:
			percentages := ratings.Extract(ratings.Normalize(raw))
			if len(percentages) == 0 {
				h.logger.Debug("no ratings data on posting",
					zap.String("posting_id", ref.ID),
					zap.String("ratings_preview", utils.TruncateForLog(raw, 120)),
				)
			}

			cls = ratings.Classify(percentages, h.cfg.Threshold)

			h.logger.Info("classified posting",
				zap.String("posting_id", ref.ID),
				zap.Float64("junior_score", cls.Score),
				zap.Bool("match", cls.Match),
			)

			if cls.Match {
				h.assess(ctx, ref)

				entry := ledger.Entry{ID: ref.ID, Title: ref.Title, Score: cls.Score}
				if err := h.store.Record(entry); err != nil {
					h.dismiss(ctx, ref)
					return cls, fmt.Errorf("recording match for posting %s: %w", ref.ID, err)
				}
			}
			st = stateClosing

		case stateClosing:
			// Close failures are not worth failing the posting over:
			// classification and recording already happened.
			if err := h.session.Close(ctx); err != nil {
				h.logger.Warn("closing detail view",
					zap.String("posting_id", ref.ID),
					zap.Error(err),
				)
			}
			st = stateDone

		case stateDone:
			return cls, nil
		}
	}
}

// assess runs the optional resume fit check. It only ever logs: an AI failure
// must not cost a recorded match.
func (h *Hunter) assess(ctx context.Context, ref portal.PostingRef) {
	if h.matcher == nil {
		return
	}

	description, err := h.session.DescriptionText(ctx)
	if err != nil {
		h.logger.Warn("skipping resume fit check",
			zap.String("posting_id", ref.ID),
			zap.Error(err),
		)
		return
	}

	assessment, err := h.matcher.Evaluate(ctx, h.cfg.Resume, &ai.Posting{
		ID:          ref.ID,
		Title:       ref.Title,
		Description: description,
	})
	if err != nil {
		h.logger.Warn("resume fit evaluation failed",
			zap.String("posting_id", ref.ID),
			zap.Error(err),
		)
		return
	}

	h.logger.Info("resume fit assessment",
		zap.String("posting_id", ref.ID),
		zap.Bool("fit", assessment.Fit),
		zap.Float64("fit_score", assessment.Score),
		zap.Strings("missing_skills", assessment.MissingSkills),
		zap.String("reason", assessment.Reason),
	)
}

func (h *Hunter) fail(ref portal.PostingRef, st state, err error) error {
	return fmt.Errorf("posting %s failed in state %s: %w", ref.ID, st, err)
}

func (h *Hunter) dismiss(ctx context.Context, ref portal.PostingRef) {
	if err := h.session.Close(ctx); err != nil {
		h.logger.Debug("dismissing detail view after failure",
			zap.String("posting_id", ref.ID),
			zap.Error(err),
		)
	}
}
