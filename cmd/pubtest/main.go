// Command pubtest runs declarative scenarios against publisher plugins.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/pubtest/internal/cli"
	_ "github.com/roach88/pubtest/internal/publisher/sqlread"
	_ "github.com/roach88/pubtest/internal/publisher/static"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands report their own ExitErrors on stdout.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
