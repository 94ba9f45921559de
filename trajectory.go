package orbitsim

// Recorder is a Renderer that keeps the most recent frames of a run, oldest
// first.
type Recorder struct {
	limit  int
	frames []Frame
}

// NewRecorder keeps at most limit frames; limit <= 0 means DefaultHistory.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultHistory
	}
	return &Recorder{limit: limit}
}

// Render stores f, evicting the oldest frame once the limit is reached.
func (r *Recorder) Render(f Frame) error {
	if len(r.frames) == r.limit {
		copy(r.frames, r.frames[1:])
		r.frames = r.frames[:len(r.frames)-1]
	}
	r.frames = append(r.frames, f)
	return nil
}

// Frames returns a copy of the recorded frames, oldest first.
func (r *Recorder) Frames() []Frame {
	return append([]Frame(nil), r.frames...)
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int {
	return len(r.frames)
}

// TrajectorySVG plots the recorded frames, see GenerateTrajectorySVG.
func (r *Recorder) TrajectorySVG(display Display) string {
	return GenerateTrajectorySVG(r.frames, display)
}
