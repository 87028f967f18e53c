package prefilter

// Tracker wraps a Prefilter and retires it when it stops paying off.
//
// A class prefilter is only worth running while most of its candidates turn
// into real matches. Common classes such as [a-z] in English text produce a
// candidate nearly every byte, and verifying each one costs more than a
// plain scan. The tracker counts candidates and confirmed matches and, once
// past a warmup, disables itself when the ratio falls below a threshold.
// A disabled tracker stays disabled until Reset.
//
//	tr := prefilter.NewTracker(pf)
//	for tr.IsActive() {
//	    pos := tr.Find(haystack, start)
//	    if pos == -1 {
//	        break
//	    }
//	    if fullMatchAt(haystack, pos) {
//	        tr.ConfirmMatch()
//	        return pos
//	    }
//	    start = pos + 1
//	}
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	inner Prefilter
	cfg   TrackerConfig

	candidates     uint64
	confirms       uint64
	lastCheckpoint uint64

	active bool
}

// TrackerConfig holds the retirement thresholds.
type TrackerConfig struct {
	// CheckInterval is the number of candidates between checks.
	CheckInterval uint64

	// MinEfficiency is the lowest acceptable confirms/candidates ratio.
	MinEfficiency float64

	// WarmupPeriod is the number of candidates before the first check.
	WarmupPeriod uint64
}

// DefaultTrackerConfig returns a check every 64 candidates after a warmup
// of 128, retiring below 10% efficiency.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		CheckInterval: 64,
		MinEfficiency: 0.1,
		WarmupPeriod:  128,
	}
}

// NewTracker wraps inner with the default configuration. It returns nil if
// inner is nil.
func NewTracker(inner Prefilter) *Tracker {
	return NewTrackerWithConfig(inner, DefaultTrackerConfig())
}

// NewTrackerWithConfig wraps inner with cfg. It returns nil if inner is nil.
func NewTrackerWithConfig(inner Prefilter, cfg TrackerConfig) *Tracker {
	if inner == nil {
		return nil
	}
	return &Tracker{inner: inner, cfg: cfg, active: true}
}

// Find returns the next candidate, or -1 when there is none or the tracker
// has retired the prefilter.
func (t *Tracker) Find(haystack []byte, start int) int {
	if !t.active {
		return -1
	}
	pos := t.inner.Find(haystack, start)
	if pos >= 0 {
		t.candidates++
		t.check()
	}
	return pos
}

// ConfirmMatch records that the last candidate was a real match.
func (t *Tracker) ConfirmMatch() {
	t.confirms++
}

// IsActive reports whether the prefilter is still in use.
func (t *Tracker) IsActive() bool {
	return t.active
}

// IsComplete delegates to the wrapped prefilter.
func (t *Tracker) IsComplete() bool {
	return t.inner.IsComplete()
}

// LiteralLen delegates to the wrapped prefilter.
func (t *Tracker) LiteralLen() int {
	return t.inner.LiteralLen()
}

// HeapBytes delegates to the wrapped prefilter.
func (t *Tracker) HeapBytes() int {
	return t.inner.HeapBytes()
}

// Stats returns the counters, the confirms/candidates ratio and whether the
// prefilter is active.
func (t *Tracker) Stats() (candidates, confirms uint64, efficiency float64, active bool) {
	if t.candidates > 0 {
		efficiency = float64(t.confirms) / float64(t.candidates)
	}
	return t.candidates, t.confirms, efficiency, t.active
}

// Reset clears the counters and re-enables the prefilter.
func (t *Tracker) Reset() {
	t.candidates = 0
	t.confirms = 0
	t.lastCheckpoint = 0
	t.active = true
}

// Inner returns the wrapped prefilter.
func (t *Tracker) Inner() Prefilter {
	return t.inner
}

func (t *Tracker) check() {
	if t.candidates < t.cfg.WarmupPeriod {
		return
	}
	if t.candidates-t.lastCheckpoint < t.cfg.CheckInterval {
		return
	}
	t.lastCheckpoint = t.candidates

	if float64(t.confirms)/float64(t.candidates) < t.cfg.MinEfficiency {
		t.active = false
	}
}

// WrapWithTracking returns inner wrapped in a Tracker, typed as a
// Prefilter. Callers reach the tracking methods by type assertion:
//
//	pf := prefilter.WrapWithTracking(inner)
//	if tr, ok := pf.(*prefilter.Tracker); ok {
//	    tr.ConfirmMatch()
//	}
func WrapWithTracking(inner Prefilter) Prefilter {
	if inner == nil {
		return nil
	}
	return NewTracker(inner)
}
