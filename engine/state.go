package engine

// Phase is the engine's position in a run
type Phase uint8

const (
	PhaseIdle   Phase = iota // No run in progress
	PhaseSeeded              // Seed placed, waiting for the start delay
	PhaseOutward
	PhaseInward
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSeeded:
		return "seeded"
	case PhaseOutward:
		return "outward"
	case PhaseInward:
		return "inward"
	default:
		return "unknown"
	}
}

// StopReason records why the last run ended
type StopReason uint8

const (
	StopNone StopReason = iota
	StopIterationCap
	StopFrontierExhausted // Inward frontier emptied
	StopNoSeed            // Outward frontier emptied and no free neighbor to restart from
)

func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopIterationCap:
		return "iteration cap reached"
	case StopFrontierExhausted:
		return "frontier exhausted"
	case StopNoSeed:
		return "no adjacent pixels available"
	default:
		return "unknown"
	}
}

// RunState is the per-engine record of the current run
type RunState struct {
	TotalIterations int
	MaxIterations   int
	Phase           Phase
	Restarts        int
	LastStop        StopReason

	pending Handle
	// generation invalidates callbacks captured before the last cancel
	generation uint64
}

// reset zeroes the counters of a user-triggered start
func (rs *RunState) reset() {
	rs.TotalIterations = 0
	rs.Restarts = 0
	rs.LastStop = StopNone
}

// cancel drops the pending tick and invalidates any callback already captured
func (rs *RunState) cancel(s Scheduler) {
	if rs.pending != 0 {
		s.Cancel(rs.pending)
		rs.pending = 0
	}
	rs.generation++
}

// Status is a copy of the engine's observable state
type Status struct {
	Phase           Phase
	TotalIterations int
	MaxIterations   int
	Pixels          int
	Frontier        int
	Restarts        int
	LastStop        StopReason
}

// Running reports whether a run is in progress
func (s Status) Running() bool {
	return s.Phase != PhaseIdle
}
