package ui

import (
	"fmt"
	"sync"
	"time"
)

const (
	spinnerGlyphs = "⣾⣽⣻⢿⡿⣟⣯⣷"
	frameEvery    = 90 * time.Millisecond

	// Show elapsed time once a wait gets long, which confirmation waits do.
	elapsedAfter = 3 * time.Second
)

// spinnerFrames exposes the glyphs one frame at a time for the bubbletea
// screens, which animate their own spinner.
var spinnerFrames = func() []string {
	rs := []rune(spinnerGlyphs)
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = string(r)
	}
	return out
}()

// Spinner is a stdout wait indicator for one-shot commands. The bubbletea
// screens animate their own; this one covers availability checks and
// receipt waits outside the TUI.
type Spinner struct {
	mu      sync.Mutex
	msg     string
	started time.Time
	quit    chan struct{}
	stopped sync.Once
	parked  chan struct{}
}

// NewSpinner creates a spinner showing msg. Call Start to animate it.
func NewSpinner(msg string) *Spinner {
	return &Spinner{
		msg:    msg,
		quit:   make(chan struct{}),
		parked: make(chan struct{}),
	}
}

// Start begins animating on stdout.
func (s *Spinner) Start() {
	s.started = time.Now()

	go func() {
		defer close(s.parked)
		tick := time.NewTicker(frameEvery)
		defer tick.Stop()

		glyphs := []rune(spinnerGlyphs)
		frame := 0
		for {
			select {
			case <-s.quit:
				fmt.Printf("\r%-70s\r", "")
				return
			case <-tick.C:
				s.mu.Lock()
				line := s.msg
				s.mu.Unlock()

				if waited := time.Since(s.started); waited > elapsedAfter {
					line += StyleMeta.Render(fmt.Sprintf("  %ds", int(waited.Seconds())))
				}
				fmt.Printf("\r%s  %s", StyleChain.Render(string(glyphs[frame%len(glyphs)])), line)
				frame++
			}
		}
	}()
}

// SetMessage swaps the displayed message, for multi-phase waits like
// "Simulating..." then "Waiting for confirmation...".
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop clears the spinner line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.stopped.Do(func() {
		close(s.quit)
		<-s.parked
	})
}

// StopWithMsg clears the spinner and prints a final line in its place.
func (s *Spinner) StopWithMsg(msg string) {
	s.Stop()
	fmt.Println(msg)
}
