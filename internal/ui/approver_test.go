package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// hangingReader never returns data until closed, like a terminal nobody types into.
type hangingReader struct{ done chan struct{} }

func newHangingReader() *hangingReader { return &hangingReader{done: make(chan struct{})} }

func (r *hangingReader) Read([]byte) (int, error) {
	<-r.done
	return 0, io.EOF
}

func (r *hangingReader) Close() { close(r.done) }

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestInteractiveApprover_TypedConfirmation(t *testing.T) {
	tests := []struct {
		name     string
		typed    string
		approved bool
		wantOut  string
	}{
		{"exact name", "sparkifydb\n", true, "Confirmed."},
		{"surrounding whitespace", "  sparkifydb \r\n", true, "Confirmed."},
		{"name without newline at EOF", "sparkifydb", true, "Confirmed."},
		{"different database", "sparkify\n", false, "does not match database name 'sparkifydb'"},
		{"case differs", "SparkifyDB\n", false, "Operation cancelled."},
		{"bare enter", "\n", false, "Operation cancelled."},
		{"yes is not enough", "yes\n", false, "Operation cancelled."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			approver := NewInteractiveApproverWithIO(strings.NewReader(tt.typed), &out, false)

			approved, err := approver.RequestApproval(context.Background(), "sparkifydb")
			require.NoError(t, err)
			assert.Equal(t, tt.approved, approved)
			assert.Contains(t, out.String(), "DROP and RECREATE the database 'sparkifydb'")
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestInteractiveApprover_ClosedInput(t *testing.T) {
	approver := NewInteractiveApproverWithIO(failingReader{err: io.EOF}, io.Discard, false)

	approved, err := approver.RequestApproval(context.Background(), "sparkifydb")
	assert.False(t, approved)
	assert.ErrorIs(t, err, io.EOF)
	assert.ErrorContains(t, err, "failed to read input")
}

func TestInteractiveApprover_InterruptWhileWaiting(t *testing.T) {
	in := newHangingReader()
	defer in.Close()
	approver := NewInteractiveApproverWithIO(in, io.Discard, false)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	approved, err := approver.RequestApproval(ctx, "sparkifydb")
	assert.False(t, approved)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewInteractiveApprover_UsesProcessStreams(t *testing.T) {
	ia, ok := NewInteractiveApprover(true).(*InteractiveApprover)
	require.True(t, ok)
	assert.True(t, ia.verbose)
	assert.NotNil(t, ia.input)
	assert.NotNil(t, ia.output)
}

func newTestForcedApprover(countdown time.Duration, sleep func(time.Duration)) (*ForcedApprover, *bytes.Buffer) {
	var out bytes.Buffer
	return &ForcedApprover{countdown: countdown, output: &out, sleepFn: sleep}, &out
}

func TestForcedApprover_Countdown(t *testing.T) {
	tests := []struct {
		name      string
		countdown time.Duration
		ticks     int
	}{
		{"default when unset", 0, int(sparkify.DefaultForceApprovalCountdown / time.Second)},
		{"configured", 2 * time.Second, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var slept []time.Duration
			approver, out := newTestForcedApprover(tt.countdown, func(d time.Duration) { slept = append(slept, d) })

			approved, err := approver.RequestApproval(context.Background(), "sparkifydb")
			require.NoError(t, err)
			assert.True(t, approved)
			assert.Len(t, slept, tt.ticks)
			for _, d := range slept {
				assert.Equal(t, time.Second, d)
			}
			assert.Contains(t, out.String(), "DANGER: database 'sparkifydb' will be dropped and recreated")
			assert.Contains(t, out.String(), "songplays rows will be lost")
			assert.Contains(t, out.String(), "Dropping in: 1 seconds")
			assert.Contains(t, out.String(), "Proceeding with database overwrite")
		})
	}
}

func TestForcedApprover_CtrlCStopsCountdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	approver, out := newTestForcedApprover(5*time.Second, func(time.Duration) {
		ticks++
		if ticks == 2 {
			cancel()
		}
	})

	approved, err := approver.RequestApproval(ctx, "sparkifydb")
	assert.False(t, approved)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 2, ticks)
	assert.NotContains(t, out.String(), "Proceeding")
}

func TestForcedApprover_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	approver, _ := newTestForcedApprover(time.Second, func(time.Duration) {
		t.Fatal("countdown must not start")
	})

	approved, err := approver.RequestApproval(ctx, "sparkifydb")
	assert.False(t, approved)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewForcedApprover_Defaults(t *testing.T) {
	fa, ok := NewForcedApprover(false).(*ForcedApprover)
	require.True(t, ok)
	assert.Equal(t, sparkify.DefaultForceApprovalCountdown, fa.countdown)
	assert.NotNil(t, fa.output)
	assert.NotNil(t, fa.sleepFn)
}
