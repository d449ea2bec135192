package model

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns a lowercase name for the level.
func (l ProgressLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// ProgressEvent represents a scan or embed progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// File is set on the event that finishes one file, whether it was
	// updated or failed.
	File string
}

// ProgressFunc receives progress events. A nil ProgressFunc is valid and
// discards everything.
type ProgressFunc func(ProgressEvent)

// Emit sends event to f if f is set.
func (f ProgressFunc) Emit(event ProgressEvent) {
	if f != nil {
		f(event)
	}
}
