package main

import (
	"io"
	"strings"
	"time"
)

// spinner is a cosmetic poll-and-print wait indicator shown while the
// server drains. It lives entirely outside the connection and protocol
// logic; dropping it changes nothing about shutdown behavior.
type spinner struct {
	w        io.Writer
	frames   []string
	interval time.Duration
}

func newSpinner(w io.Writer) *spinner {
	return &spinner{
		w:        w,
		frames:   []string{"-", "\\", "|", "/"},
		interval: 100 * time.Millisecond,
	}
}

// run prints frames until done is closed, then erases the last frame.
func (s *spinner) run(done <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	position := 0
	for {
		select {
		case <-done:
			io.WriteString(s.w, strings.Repeat("\b", len(s.frames[0]))+" \n")
			return
		case <-ticker.C:
			frame := s.frames[position%len(s.frames)]
			io.WriteString(s.w, frame+strings.Repeat("\b", len(frame)))
			position++
		}
	}
}
