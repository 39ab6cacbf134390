package quota

import (
	"context"

	"github.com/01moynul/aitools-golang/internal/apperr"
	"github.com/01moynul/aitools-golang/internal/metrics"
)

// UsageWriter atomically increments a user's counters for a feature.
type UsageWriter interface {
	IncrementUsage(ctx context.Context, userID string, feature Feature) error
}

// Recorder counts successful metered calls.
type Recorder struct {
	usage UsageWriter
}

func NewRecorder(usage UsageWriter) *Recorder {
	return &Recorder{usage: usage}
}

// RecordUsage adds one call to the user's counter for feature. Call it once
// per successful metered call and never on failure.
func (r *Recorder) RecordUsage(ctx context.Context, userID string, feature Feature) error {
	err := r.usage.IncrementUsage(ctx, userID, feature)
	metrics.RecordUsage(string(feature), err)
	return apperr.Wrap(apperr.KindPersistence, "quota.RecordUsage", err)
}
