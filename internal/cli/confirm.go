package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// confirmEnable is the ConfirmFunc wired into batch runs. It refuses to
// guess on a non-interactive stdin so piped runs must pass --yes
// explicitly.
func confirmEnable(count int) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("confirmation required but stdin is not a terminal (use --yes to proceed)")
	}

	fmt.Printf("About to enable Software Assurance on %d machine(s).\n", count)
	fmt.Print(`Type "YES" to continue: `)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	return strings.TrimSpace(input) == "YES", nil
}
