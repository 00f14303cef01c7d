package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// ForcedApprover implements the Approver interface for forced (non-interactive)
// approval. It displays a countdown and approves when it ends; used with
// --overwrite --force.
type ForcedApprover struct {
	verbose   bool
	countdown time.Duration
	output    io.Writer
	sleepFn   func(time.Duration)
}

// NewForcedApprover creates a ForcedApprover that writes to stderr.
func NewForcedApprover(verbose bool) sparkify.Approver {
	return &ForcedApprover{
		verbose:   verbose,
		countdown: sparkify.DefaultForceApprovalCountdown,
		output:    os.Stderr,
		sleepFn:   time.Sleep,
	}
}

// RequestApproval displays a countdown and automatically approves after it.
// Cancelling ctx during the countdown denies approval.
func (a *ForcedApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, dangerStyle.Render(fmt.Sprintf("DANGER: database '%s' will be dropped and recreated", dbName)))
	fmt.Fprintln(a.output, mutedStyle.Render("All songs, artists, users, time and songplays rows will be lost."))

	seconds := int(a.countdownOrDefault().Seconds())
	for i := seconds; i > 0; i-- {
		if err := ctx.Err(); err != nil {
			fmt.Fprintln(a.output)
			return false, err
		}
		fmt.Fprintf(a.output, "\rDropping in: %d seconds... (Press Ctrl+C to cancel)", i)
		a.sleepFn(time.Second)
	}
	if err := ctx.Err(); err != nil {
		fmt.Fprintln(a.output)
		return false, err
	}

	fmt.Fprintf(a.output, "\r%s\n", successStyle.Render("Proceeding with database overwrite..."))
	return true, nil
}

func (a *ForcedApprover) countdownOrDefault() time.Duration {
	if a.countdown <= 0 {
		return sparkify.DefaultForceApprovalCountdown
	}
	return a.countdown
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ sparkify.Approver = (*ForcedApprover)(nil)
