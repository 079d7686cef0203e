package tracker

// ReorderMode selects which list a Reorder session swaps.
type ReorderMode int

const (
	ReorderOff ReorderMode = iota
	ReorderCategories
	ReorderNotes
)

// Reorder is the two-step swap selection: Idle, then PendingSwap(source)
// after the first pick, then back to Idle once a second pick completes or
// cancels the swap.
type Reorder struct {
	Mode    ReorderMode
	source  string
	pending bool
}

// Toggle enters mode, or leaves it when it is already active. Any pending
// source is dropped either way.
func (r *Reorder) Toggle(mode ReorderMode) {
	if r.Mode == mode {
		r.Mode = ReorderOff
	} else {
		r.Mode = mode
	}
	r.Reset()
}

func (r *Reorder) Reset() {
	r.source = ""
	r.pending = false
}

func (r Reorder) Active(mode ReorderMode) bool {
	return r.Mode != ReorderOff && r.Mode == mode
}

// Pending returns the selected source, if any.
func (r Reorder) Pending() (string, bool) {
	return r.source, r.pending
}

// Select feeds a pick into the state machine. It returns the source and true
// when the pick completes a swap with a different id. Picking the pending
// source again cancels.
func (r *Reorder) Select(id string) (string, bool) {
	if r.Mode == ReorderOff {
		return "", false
	}
	if !r.pending {
		r.source = id
		r.pending = true
		return "", false
	}
	src := r.source
	r.Reset()
	if src == id {
		return "", false
	}
	return src, true
}
