package util

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/moby/term"
	"github.com/tj/go-spin"
	"github.com/ttacon/chalk"
)

// Progress runs a unit of work while telling the user something is happening
type Progress interface {
	Do(workFunc func() error, messages ...interface{}) error
}

// NoProgress runs work without any indicator
type NoProgress struct{}

// Do executes workFunc
func (NoProgress) Do(workFunc func() error, messages ...interface{}) error {
	return workFunc()
}

// NewProgress returns a spinner on out when out is a terminal and trace
// output is off, otherwise NoProgress
func NewProgress(out *os.File, trace bool) Progress {
	if trace || !IsTerminal(out) {
		return NoProgress{}
	}
	return NewProgressSpinner(out)
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(f.Fd())
}

// ProgressSpinner is an indefinite progress indicator using a spinner.
type ProgressSpinner struct {
	out     io.Writer
	spinner *spin.Spinner
	message string
	wg      sync.WaitGroup

	mu       sync.Mutex
	done     bool
	spinning bool
}

// NewProgressSpinner returns a spinner drawing on out
func NewProgressSpinner(out io.Writer) *ProgressSpinner {
	return &ProgressSpinner{out: out}
}

// Start starts the spinner
func (ps *ProgressSpinner) Start(messages ...interface{}) {
	ps.mu.Lock()
	ps.message = fmt.Sprint(messages...)
	ps.spinner = spin.New()
	ps.done = false
	ps.spinning = true
	ps.mu.Unlock()

	ps.wg.Add(1)
	go func() {
		defer ps.wg.Done()
		for {
			ps.mu.Lock()
			if ps.done {
				ps.spinning = false
				ps.mu.Unlock()
				return
			}
			fmt.Fprintf(ps.out, "\r%s %s", chalk.Yellow.Color(ps.spinner.Next()), ps.message)
			ps.mu.Unlock()
			time.Sleep(time.Millisecond * 100)
		}
	}()
}

// Do executes given function with given messages as label.
func (ps *ProgressSpinner) Do(workFunc func() error, messages ...interface{}) error {
	ps.Start(messages...)
	if err := workFunc(); err != nil {
		ps.Fail()
		return err
	}
	ps.Done()
	return nil
}

// Done stops the spinner with success mark.
func (ps *ProgressSpinner) Done() {
	ps.stop(chalk.Green.Color("done"))
}

// Fail stops the spinner with error mark.
func (ps *ProgressSpinner) Fail() {
	ps.stop(chalk.Red.Color("failed"))
}

func (ps *ProgressSpinner) stop(mark string) {
	ps.mu.Lock()
	if !ps.spinning {
		ps.mu.Unlock()
		return
	}
	ps.done = true
	ps.mu.Unlock()

	ps.wg.Wait()
	fmt.Fprintf(ps.out, "\r%s %s     \n", ps.message, mark)
}
