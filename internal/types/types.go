package types

// KeyEvent is one time range of interest selected by the upstream analysis
// step. Events arrive ordered by importance, not chronologically, and the
// pipeline preserves that order end to end.
type KeyEvent struct {
	StartSec float64 `json:"start_time"`
	EndSec   float64 `json:"end_time"`
	Label    string  `json:"label"`
	Reason   string  `json:"reason,omitempty"`
}

// DurationSec returns the requested clip length in seconds. It is not
// clamped; range validation happens before any extraction starts.
func (e KeyEvent) DurationSec() float64 {
	return e.EndSec - e.StartSec
}

// ClipArtifact is one extracted sub-clip on disk. Index is the event's
// position in the input sequence; the merge manifest lists artifacts in
// exactly this order.
type ClipArtifact struct {
	Index int
	Path  string
}
