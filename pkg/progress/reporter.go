package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Reporter shows that a long call is in flight.
type Reporter interface {
	Start(msg string)
	Stop()
}

type nop struct{}

func (nop) Start(string) {}
func (nop) Stop()        {}

// Nop is a Reporter that prints nothing.
var Nop Reporter = nop{}

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type spinner struct {
	out      io.Writer
	interval time.Duration

	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup
}

// NewSpinner animates on out until Stop is called.
func NewSpinner(out io.Writer, interval time.Duration) *spinner {
	return &spinner{out: out, interval: interval}
}

// ForTerminal returns a spinner on stderr when it is a terminal and a plain
// one-line announcement otherwise.
func ForTerminal() Reporter {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return NewSpinner(os.Stderr, 80*time.Millisecond)
	}
	return NewLine(os.Stderr)
}

func (s *spinner) Start(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return
	}
	s.done = make(chan struct{})

	s.wg.Add(1)
	go s.run(msg, s.done)
}

func (s *spinner) run(msg string, done <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	frame := color.New(color.FgCyan)
	for i := 0; ; i++ {
		fmt.Fprintf(s.out, "\r%s %s", frame.Sprint(frames[i%len(frames)]), msg)

		select {
		case <-done:
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-ticker.C:
		}
	}
}

func (s *spinner) Stop() {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		return
	}
	close(s.done)
	s.done = nil
	s.mu.Unlock()

	s.wg.Wait()
}

type line struct {
	out io.Writer
}

// NewLine prints the message once on Start and nothing on Stop.
func NewLine(out io.Writer) Reporter {
	return line{out: out}
}

func (l line) Start(msg string) { fmt.Fprintln(l.out, msg) }
func (l line) Stop()            {}
