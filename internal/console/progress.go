package console

import (
	"io"
	"time"

	"github.com/daniloc96/canvas-xnat-sync/internal/sync"
	"github.com/jedib0t/go-pretty/v6/progress"
)

// Progress renders run progress bars to a terminal.
type Progress struct {
	pw   progress.Writer
	done chan struct{}
}

// NewProgress starts a progress renderer writing to out. Call Stop when the run ends.
func NewProgress(out io.Writer) *Progress {
	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Percentage = true

	p := &Progress{pw: pw, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		pw.Render()
	}()
	return p
}

// Track adds a progress bar for a unit of work with total steps.
func (p *Progress) Track(message string, total int) sync.Tracker {
	t := &progress.Tracker{
		Message: message,
		Total:   int64(total),
		Units:   progress.UnitsDefault,
	}
	p.pw.AppendTracker(t)
	return &tracker{t: t}
}

// Stop flushes the final frame and waits for the renderer to exit.
func (p *Progress) Stop() {
	// Stop is ignored until Render has started.
	for i := 0; i < 20 && !p.pw.IsRenderInProgress(); i++ {
		time.Sleep(10 * time.Millisecond)
	}
	// One more tick lets the renderer draw completed trackers.
	time.Sleep(150 * time.Millisecond)
	p.pw.Stop()
	<-p.done
}

type tracker struct {
	t *progress.Tracker
}

func (t *tracker) Increment() { t.t.Increment(1) }

func (t *tracker) Done() { t.t.MarkAsDone() }
