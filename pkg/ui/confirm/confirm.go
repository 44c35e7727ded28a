// Package confirm provides the yes/no confirmation policies the relocation
// engine prompts through. The policy is passed into the engine at
// construction; there is no process-wide force flag.
package confirm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/homesync/pkg/logging"
	"github.com/mattn/go-isatty"
)

// ForceYes answers yes to every prompt without asking
type ForceYes struct{}

// Confirm always returns true
func (ForceYes) Confirm(string) bool { return true }

// Console asks on the terminal and blocks until it gets a recognizable
// yes/no answer. Unrecognized input repeats the prompt. There is no
// timeout.
type Console struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewConsole creates a Console reading from stdin and writing to stdout.
// When stdin is not a terminal, every prompt is answered no.
func NewConsole() *Console {
	return &Console{
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
}

// NewConsoleWith creates a Console over the given reader and writer,
// treated as interactive. Used by tests.
func NewConsoleWith(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: true,
	}
}

// Confirm implements relocate.Policy
func (c *Console) Confirm(prompt string) bool {
	if !c.interactive {
		logger := logging.GetLogger("ui.confirm")
		logger.Warn().Msg("stdin is not a terminal, answering no")
		return false
	}

	for {
		fmt.Fprintf(c.out, "%s <Yes|No> ", prompt)

		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			// EOF: nothing more will ever arrive
			return false
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "yes", "y":
			return true
		case "no", "n":
			return false
		}
	}
}
