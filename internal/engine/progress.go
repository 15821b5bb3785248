package engine

// Phase identifies which stage a progress report belongs to.
type Phase int

const (
	// PhaseScan counts source images processed within one candidate.
	PhaseScan Phase = iota
	// PhaseSearch counts scale candidates evaluated.
	PhaseSearch
)

func (p Phase) String() string {
	switch p {
	case PhaseScan:
		return "scan"
	case PhaseSearch:
		return "search"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress reports. It is observational only and is
// never called concurrently.
//
// PhaseSearch reports count completed candidates and increase by one per
// call. PhaseScan reports come from whichever candidates are being
// evaluated in parallel, so their done values interleave and are not a
// running total; use PhaseSearch to drive a progress bar.
type ProgressFunc func(phase Phase, done, total int)
