package job

import (
	"context"
	"math/rand"
	"time"

	"shinypull/internal/pkg/logger"

	"github.com/google/uuid"
)

// RunSummary reports one runner invocation. StoppedEarly is set when a
// rate-limit signal cut the batch short; the work already written stays
// and the next scheduled run continues it.
type RunSummary struct {
	Processed    int
	Failed       int
	StoppedEarly bool
}

func newRunContext() context.Context {
	traceID := "job-" + uuid.NewString()
	return context.WithValue(context.Background(), logger.TraceIDKey, traceID)
}

func randomDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
