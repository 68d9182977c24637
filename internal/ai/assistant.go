// Package ai defines the optional resume fit assessment applied to postings
// that already passed the junior score rule.
package ai

import "context"

// Posting is the minimal posting payload handed to a Matcher.
type Posting struct {
	ID          string
	Title       string
	Description string
}

// FitAssessment is the provider's verdict on one posting.
type FitAssessment struct {
	Fit           bool
	Score         float64
	MissingSkills []string
	Reason        string
	Raw           string
}

// Matcher evaluates the operator's resume against a posting description.
type Matcher interface {
	Evaluate(ctx context.Context, resume string, posting *Posting) (*FitAssessment, error)
}
