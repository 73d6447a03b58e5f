package dag

// Stats describes the bookkeeping of one evaluation call.
type Stats struct {
	Nodes    int // distinct nodes reached from the root
	Computed int // symbols computed
	Released int // cached symbols freed
	PeakLive int // largest number of symbols cached at the same time
	Live     int // symbols still cached when the call returned

	computed map[*Node]int
	pending  map[*Node]int
}

// ComputedFor returns how often the symbol of n was computed.
func (s *Stats) ComputedFor(n *Node) int { return s.computed[n] }

// PendingFor returns the pending-consumer count n was left with.
func (s *Stats) PendingFor(n *Node) int { return s.pending[n] }

// Visited reports whether n was reached by the call.
func (s *Stats) Visited(n *Node) bool {
	_, ok := s.pending[n]
	return ok
}

func (e *evaluation) fill(s *Stats) {
	*s = Stats{
		Nodes:    len(e.order),
		Released: e.released,
		PeakLive: e.peakLive,
		Live:     e.live,
		computed: make(map[*Node]int, len(e.order)),
		pending:  make(map[*Node]int, len(e.order)),
	}
	for n, st := range e.state {
		s.computed[n] = st.computed
		s.pending[n] = st.pending
		s.Computed += st.computed
	}
}
