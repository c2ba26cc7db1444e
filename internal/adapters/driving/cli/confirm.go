package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Swapped in tests.
var (
	confirmInput  io.Reader = os.Stdin
	isInteractive           = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

var errConfirmationRequired = errors.New("refusing to delete without confirmation: pass --yes when not running in a terminal")

// confirm asks a yes/no question on the terminal. The default answer is no.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	if !isInteractive() {
		return false, errConfirmationRequired
	}

	cmd.Print(question + " [y/N]: ")
	input, _ := bufio.NewReader(confirmInput).ReadString('\n') //nolint:errcheck // EOF means no
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
