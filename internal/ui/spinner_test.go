package ui

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is a bytes.Buffer safe for the animation goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ansi.Strip(b.buf.String())
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner(&syncBuffer{}, "Fetching")
	assert.Equal(t, "Fetching", s.Label())
	assert.Equal(t, SpinnerPending, s.State())

	s.SetLabel("Still fetching")
	assert.Equal(t, "Still fetching", s.Label())
}

func TestSpinnerStartStop(t *testing.T) {
	var out syncBuffer
	s := NewSpinner(&out, "Fetching")

	s.Start()
	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(2 * frameInterval)
	s.Stop()
	s.Stop()

	assert.Equal(t, SpinnerInProgress, s.State())
	assert.Contains(t, out.String(), "Fetching...")
}

func TestSpinnerFinal(t *testing.T) {
	tests := []struct {
		name   string
		finish func(*Spinner)
		state  SpinnerState
		symbol string
	}{
		{"success", (*Spinner).Success, SpinnerSuccess, SymbolSuccess},
		{"fail", (*Spinner).Fail, SpinnerFailed, SymbolFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out syncBuffer
			s := NewSpinner(&out, "Simulating brute-force")
			start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			calls := 0
			s.now = func() time.Time {
				calls++
				if calls == 1 {
					return start
				}
				return start.Add(1200 * time.Millisecond)
			}

			s.Start()
			tt.finish(s)

			assert.Equal(t, tt.state, s.State())
			assert.Contains(t, out.String(), tt.symbol+" Simulating brute-force 1.2s\n")
		})
	}
}

func TestRun(t *testing.T) {
	var out syncBuffer
	require.NoError(t, Run(&out, "Fetching", func() error { return nil }))
	assert.Contains(t, out.String(), SymbolSuccess+" Fetching")

	var failed syncBuffer
	err := Run(&failed, "Fetching", func() error { return fmt.Errorf("boom") })
	assert.EqualError(t, err, "boom")
	assert.Contains(t, failed.String(), SymbolFail+" Fetching")
}

func TestRun_NilWriter(t *testing.T) {
	called := false
	require.NoError(t, Run(nil, "quiet", func() error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{50 * time.Millisecond, "0.05s"},
		{300 * time.Millisecond, "0.3s"},
		{1500 * time.Millisecond, "1.5s"},
		{65 * time.Second, "65.0s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}
