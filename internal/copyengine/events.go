package copyengine

// Event is the interface implemented by all copy engine events.
type Event interface {
	isEvent()
}

// EventEmitter is the interface for emitting events.
type EventEmitter interface {
	Emit(event Event)
}

// EmitterFunc adapts a function to EventEmitter.
type EmitterFunc func(event Event)

// Emit calls f(event).
func (f EmitterFunc) Emit(event Event) {
	f(event)
}

// ScanComplete is emitted when the scan pass finishes.
type ScanComplete struct {
	Root  string
	Total uint64
}

func (ScanComplete) isEvent() {}

// DirectoryCreated is emitted when the copy pass creates a destination directory.
// Directories that already existed are not reported.
type DirectoryCreated struct {
	Path string
}

func (DirectoryCreated) isEvent() {}

// FileCopied is emitted after a file was copied in full and the counter updated.
type FileCopied struct {
	Source string
	Dest   string
	Bytes  int64
	Copied uint64
	Total  uint64
}

func (FileCopied) isEvent() {}

// EntryFailed is emitted for every per-entry error. The run carries on.
type EntryFailed struct {
	Op   string
	Path string
	Err  error
}

func (EntryFailed) isEvent() {}

// CopyComplete is emitted when the copy pass finishes.
type CopyComplete struct {
	Result *Result
}

func (CopyComplete) isEvent() {}
