package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. The user must type the database name to confirm
// the drop.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates an InteractiveApprover reading stdin and
// writing to stderr.
func NewInteractiveApprover(verbose bool) sparkify.Approver {
	return NewInteractiveApproverWithIO(os.Stdin, os.Stderr, verbose)
}

// NewInteractiveApproverWithIO creates an InteractiveApprover on the given
// streams.
func NewInteractiveApproverWithIO(in io.Reader, out io.Writer, verbose bool) sparkify.Approver {
	return &InteractiveApprover{
		verbose: verbose,
		input:   in,
		output:  out,
	}
}

// RequestApproval prompts the user to type the database name to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	fmt.Fprintln(a.output)
	fmt.Fprintln(a.output, warningStyle.Render(fmt.Sprintf("WARNING: You are about to DROP and RECREATE the database '%s'", dbName)))
	fmt.Fprintln(a.output, "This will permanently delete all data in this database!")
	fmt.Fprintf(a.output, "\nTo confirm, type the database name '%s' and press Enter: ", dbName)

	// The read goroutine outlives a cancelled prompt; it ends when input closes.
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)
	go func() {
		line, err := bufio.NewReader(a.input).ReadString('\n')
		if err != nil && line == "" {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(line)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(a.output)
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == dbName {
			fmt.Fprintln(a.output, successStyle.Render("Confirmed. Proceeding with database overwrite..."))
			return true, nil
		}
		fmt.Fprintf(a.output, "Input '%s' does not match database name '%s'. Operation cancelled.\n", input, dbName)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ sparkify.Approver = (*InteractiveApprover)(nil)
