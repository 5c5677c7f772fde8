package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	spinnerTick = 80 * time.Millisecond

	// showElapsedAfter is when the spinner starts appending the elapsed time.
	showElapsedAfter = 2 * time.Second
)

// Spinner shows progress for a slow step such as a GitHub fetch. On a
// terminal it animates on one line; elsewhere it prints the message once.
// It stops drawing when its context is cancelled.
type Spinner struct {
	w           io.Writer
	interactive bool
	parent      context.Context

	mu      sync.Mutex
	message string
	width   int // widest line drawn, for clearing
	start   time.Time

	stop     context.CancelFunc
	finished chan struct{}
	once     sync.Once
}

func newSpinner(ctx context.Context, message string) *Spinner {
	return &Spinner{
		w:           os.Stderr,
		interactive: isatty.IsTerminal(os.Stderr.Fd()),
		parent:      ctx,
		message:     message,
	}
}

// Start begins drawing. Calling it twice has no effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished != nil {
		return
	}
	s.start = time.Now()
	s.finished = make(chan struct{})
	if !s.interactive {
		fmt.Fprintln(s.w, s.message)
		close(s.finished)
		return
	}

	ctx, stop := context.WithCancel(s.parent)
	s.stop = stop
	go s.run(ctx)
}

func (s *Spinner) run(ctx context.Context) {
	defer close(s.finished)
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.message
	if elapsed := time.Since(s.start); elapsed >= showElapsedAfter {
		text += fmt.Sprintf(" (%ds)", int(elapsed.Seconds()))
	}
	pad := ""
	if n := len(text) + 2; n < s.width {
		pad = strings.Repeat(" ", s.width-n)
	} else {
		s.width = n
	}
	fmt.Fprintf(s.w, "\r%s %s%s", styleIconSpinner.Render(frame), StyleDim.Render(text), pad)
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Update replaces the message. Non-interactive spinners print it as a new
// line.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	if !s.interactive && s.finished != nil {
		fmt.Fprintln(s.w, message)
	}
}

// Stop stops drawing and clears the line. It is safe to call more than once
// and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.mu.Lock()
		stop, finished := s.stop, s.finished
		s.mu.Unlock()
		if stop != nil {
			stop()
		}
		if finished != nil {
			<-finished
		}
	})
}

// StopWithSuccess stops the spinner and prints a success line.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the step was interrupted through the parent
// context rather than stopped.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
