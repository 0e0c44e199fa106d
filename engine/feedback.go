package engine

import (
	"context"
)

// FeedbackType is one of the four recognized feedback kinds.
type FeedbackType string

const (
	FeedbackWorn     FeedbackType = "worn"
	FeedbackLiked    FeedbackType = "liked"
	FeedbackDisliked FeedbackType = "disliked"
	FeedbackRejected FeedbackType = "rejected"
)

// Feedback is a recorded reaction to a bundle, the record_feedback
// operation's persisted shape.
type Feedback struct {
	FeedbackID     string
	IdempotencyKey string
	UserID         string
	BundleID       string
	Type           FeedbackType
	Reasons        []string
	Rating         *int
	RecordedAt     int64
}

// FeedbackStore persists feedback records and enforces idempotency by
// (user_id, idempotency_key).
type FeedbackStore interface {
	Record(ctx context.Context, f Feedback) (Feedback, error)
}

// RecordFeedbackResult is the outward result of record_feedback.
type RecordFeedbackResult struct {
	Feedback Feedback
	Err      *Error
}

// RecordFeedback records a user reaction to a bundle, feeding "worn"
// entries into the wear history NoveltyVariety consumes on subsequent
// generations.
func (e *Engine) RecordFeedback(ctx context.Context, store FeedbackStore, userID, bundleID string, feedbackType FeedbackType, reasons []string, rating *int, idempotencyKey string, traceID string) RecordFeedbackResult {
	if userID == "" || bundleID == "" || idempotencyKey == "" {
		return RecordFeedbackResult{Err: newError(KindInvalidInput, "user_id, bundle_id and idempotency_key are required", "", traceID)}
	}
	switch feedbackType {
	case FeedbackWorn, FeedbackLiked, FeedbackDisliked, FeedbackRejected:
	default:
		return RecordFeedbackResult{Err: newError(KindInvalidInput, "unrecognized feedback_type", "", traceID)}
	}

	f := Feedback{
		IdempotencyKey: idempotencyKey,
		UserID:         userID,
		BundleID:       bundleID,
		Type:           feedbackType,
		Reasons:        reasons,
		Rating:         rating,
		RecordedAt:     e.Clock.Now().Unix(),
	}
	saved, err := store.Record(ctx, f)
	if err != nil {
		return RecordFeedbackResult{Err: newError(KindInternal, "feedback record failed: "+err.Error(), "", traceID)}
	}

	if feedbackType == FeedbackWorn && e.WearHist != nil {
		if rec, err := e.Bundles.Load(ctx, userID, bundleID); err == nil {
			wornAt := e.Clock.Now()
			for _, c := range rec.Bundle.Items {
				_ = e.WearHist.RecordWorn(ctx, userID, c.Item.ItemID, wornAt)
			}
		}
	}
	return RecordFeedbackResult{Feedback: saved}
}
