// Command tickets compiles ticket filter expressions and runs them against
// the local ticket database.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/TheBiochemic/tickets/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands report their own failures; only usage errors are left.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
