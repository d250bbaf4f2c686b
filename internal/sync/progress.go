package sync

// Progress receives progress updates while a run walks courses and participants.
type Progress interface {
	Track(message string, total int) Tracker
}

// Tracker follows a single unit of work.
type Tracker interface {
	Increment()
	Done()
}

type noopProgress struct{}

func (noopProgress) Track(string, int) Tracker { return noopTracker{} }

type noopTracker struct{}

func (noopTracker) Increment() {}
func (noopTracker) Done()      {}
