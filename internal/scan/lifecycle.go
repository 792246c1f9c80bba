package scan

// State is one step of the upload lifecycle.
type State string

const (
	StateIdle        State = "idle"
	StateCompressing State = "compressing"
	StateUploading   State = "uploading"
	StateSuccess     State = "success"
	StateError       State = "error"
)

// Lifecycle is the authoritative observable status of one upload
// attempt. It performs no I/O itself: the validator, compressor, store
// and parse gateway all report into it, so presentation logic reads a
// single status source.
//
// The machine does not validate transition legality; sequencing is the
// orchestrating caller's contract. It is mutated by a single caller at
// a time, so it carries no lock.
type Lifecycle struct {
	state    State
	progress int
	err      string
}

func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateIdle}
}

// StartCompression enters compressing, clearing any previous error and
// resetting progress.
func (l *Lifecycle) StartCompression() {
	l.state = StateCompressing
	l.err = ""
	l.progress = 0
}

// StartUploading enters uploading. Progress is left as last reported;
// compression and upload share one 0-100 scale.
func (l *Lifecycle) StartUploading() {
	l.state = StateUploading
	l.err = ""
}

// CompleteSuccess enters the terminal success state with full progress.
func (l *Lifecycle) CompleteSuccess() {
	l.state = StateSuccess
	l.err = ""
	l.progress = 100
}

// SetError is reachable from every state: validation, compression,
// transfer and parse failures all funnel through here.
func (l *Lifecycle) SetError(message string) {
	l.state = StateError
	l.err = message
	l.progress = 0
}

// Reset returns to idle unconditionally, for retry or a new upload.
func (l *Lifecycle) Reset() {
	l.state = StateIdle
	l.err = ""
	l.progress = 0
}

// SetProgress stores the reported value clamped to [0,100]. Monotonic
// increase is a caller convention, not enforced here.
func (l *Lifecycle) SetProgress(p int) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	l.progress = p
}

func (l *Lifecycle) State() State       { return l.state }
func (l *Lifecycle) Progress() int      { return l.progress }
func (l *Lifecycle) ErrMessage() string { return l.err }

func (l *Lifecycle) IsLoading() bool {
	return l.state == StateCompressing || l.state == StateUploading
}

func (l *Lifecycle) IsIdle() bool        { return l.state == StateIdle }
func (l *Lifecycle) IsCompressing() bool { return l.state == StateCompressing }
func (l *Lifecycle) IsUploading() bool   { return l.state == StateUploading }
func (l *Lifecycle) IsSuccess() bool     { return l.state == StateSuccess }
func (l *Lifecycle) IsError() bool       { return l.state == StateError }
