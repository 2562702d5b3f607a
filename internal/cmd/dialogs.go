package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Iron-Ham/taskgraph/internal/errors"
)

// termDialogs answers workspace prompts on a line-oriented terminal. When
// stdin is not interactive every question is answered "no", which makes
// workspace commands cancel rather than discard unsaved work.
type termDialogs struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

func newTermDialogs(in io.Reader, out io.Writer, interactive bool) *termDialogs {
	return &termDialogs{in: bufio.NewReader(in), out: out, interactive: interactive}
}

// stdinIsTerminal reports whether the process can prompt the user.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (d *termDialogs) Ask(ctx context.Context, title, message string) (bool, error) {
	if !d.interactive {
		return false, nil
	}
	fmt.Fprintf(d.out, "%s\n%s [y/N]: ", title, message)
	answer, err := d.readLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (d *termDialogs) Message(_ context.Context, title, message string) error {
	if d.interactive {
		fmt.Fprintf(d.out, "%s: %s\n", title, message)
	}
	return nil
}

func (d *termDialogs) PickOpen(ctx context.Context, extension string) (string, error) {
	return d.pick(ctx, fmt.Sprintf("Open (*.%s): ", extension))
}

func (d *termDialogs) PickSave(ctx context.Context, extension string) (string, error) {
	return d.pick(ctx, fmt.Sprintf("Save as (*.%s): ", extension))
}

func (d *termDialogs) pick(ctx context.Context, label string) (string, error) {
	if !d.interactive {
		return "", nil
	}
	fmt.Fprint(d.out, label)
	return d.readLine(ctx)
}

func (d *termDialogs) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.ErrCancelled
	}
	line, err := d.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", nil
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
