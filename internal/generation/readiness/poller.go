package readiness

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Outcome is the terminal state of a readiness poll.
type Outcome string

const (
	// Ready means the image reached the dimension threshold.
	Ready Outcome = "ready"
	// Partial means retries ran out but at least one probe loaded something;
	// callers show whatever rendered rather than failing outright.
	Partial Outcome = "partial"
	// Failed means every probe errored.
	Failed Outcome = "failed"
)

// Polling is reported once when the loop starts.
const Polling = "polling"

// Dimensions are the pixel dimensions a probe observed.
type Dimensions struct {
	Width  int
	Height int
}

// Checker probes an image URL once and reports its dimensions. The dimension
// heuristic stands in for a completion signal the image service does not
// offer; keeping it behind an interface lets the heuristic change without
// touching the poll loop or the orchestrator.
type Checker interface {
	Check(ctx context.Context, imageURL string) (Dimensions, error)
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context, imageURL string) (Dimensions, error)

func (f CheckerFunc) Check(ctx context.Context, imageURL string) (Dimensions, error) {
	return f(ctx, imageURL)
}

// Poller repeatedly probes an image URL until it is ready, retries run out,
// or the context is cancelled.
type Poller struct {
	checker      Checker
	maxAttempts  int
	interval     time.Duration
	minDimension int
}

func NewPoller(checker Checker, maxAttempts int, interval time.Duration, minDimension int) *Poller {
	if maxAttempts <= 0 {
		maxAttempts = 40
	}
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if minDimension <= 0 {
		minDimension = 1000
	}
	return &Poller{
		checker:      checker,
		maxAttempts:  maxAttempts,
		interval:     interval,
		minDimension: minDimension,
	}
}

// Wait polls until a terminal outcome. Every attempt carries a fresh
// cache-busting query parameter so each probe reflects current server-side
// state. A cancelled context stops the loop and returns ctx.Err(); otherwise
// Wait always resolves with an Outcome. The report callback, if non-nil,
// receives each state change.
func (p *Poller) Wait(ctx context.Context, imageURL string, report func(state string)) (Outcome, error) {
	notify := func(state string) {
		if report != nil {
			report(state)
		}
	}

	notify(Polling)

	loaded := false
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(p.interval):
			}
		}

		dims, err := p.checker.Check(ctx, cacheBust(imageURL, attempt))
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			continue
		}

		loaded = true
		if dims.Width >= p.minDimension && dims.Height >= p.minDimension {
			notify(string(Ready))
			return Ready, nil
		}
	}

	if loaded {
		notify(string(Partial))
		return Partial, nil
	}
	notify(string(Failed))
	return Failed, nil
}

// cacheBust appends a unique query parameter so no attempt is served from a
// cache.
func cacheBust(imageURL string, attempt int) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return imageURL
	}
	q := u.Query()
	q.Set("cb", fmt.Sprintf("%d-%s", attempt, strconv.FormatInt(time.Now().UnixNano(), 36)))
	u.RawQuery = q.Encode()
	return u.String()
}
