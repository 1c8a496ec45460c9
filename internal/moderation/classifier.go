// Package moderation decides whether an uploaded scan image can be analyzed
// right away or has to wait for manual review.
package moderation

import (
	"context"
	"errors"
)

// Decision is the outcome of classifying an image.
type Decision int

const (
	Approved Decision = iota
	NeedsReview
)

func (d Decision) String() string {
	switch d {
	case Approved:
		return "approved"
	case NeedsReview:
		return "needs_review"
	default:
		return "unknown"
	}
}

// ErrUndecodable is returned when the payload is not a supported image.
var ErrUndecodable = errors.New("moderation: image could not be decoded")

// Classifier inspects raw upload bytes.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, data []byte) (Decision, error)
}

// NoopClassifier approves everything.
type NoopClassifier struct{}

func (NoopClassifier) Name() string { return "noop" }

func (NoopClassifier) Classify(context.Context, []byte) (Decision, error) {
	return Approved, nil
}
