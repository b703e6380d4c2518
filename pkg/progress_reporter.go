package pkg

import (
	"io"
	"os"

	"github.com/cheggaaa/pb"
	"golang.org/x/term"
)

// ProgressReporter counts work done. It does nothing unless a bar is attached.
type ProgressReporter struct {
	bar *pb.ProgressBar
}

// NewProgressReporter starts a progress bar on stderr for total items.
// The bar is only drawn in verbose mode and when stderr is a terminal.
func NewProgressReporter(prefix string, total int) *ProgressReporter {
	if !VerboseMode || total == 0 || !term.IsTerminal(int(os.Stderr.Fd())) {
		return &ProgressReporter{}
	}

	return newProgressReporterTo(os.Stderr, prefix, total)
}

func newProgressReporterTo(output io.Writer, prefix string, total int) *ProgressReporter {
	bar := pb.New(total).Prefix(prefix)
	bar.Output = output
	bar.ShowSpeed = false
	bar.ShowTimeLeft = false
	bar.Start()

	return &ProgressReporter{bar: bar}
}

// Increment marks one more item as done
func (p *ProgressReporter) Increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

// Finish stops the bar
func (p *ProgressReporter) Finish() {
	if p.bar != nil {
		p.bar.Finish()
	}
}
