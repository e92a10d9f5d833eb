// Command meteofetch polls the MeteoSwiss 10-minute global radiation CSV
// and merges each snapshot into a deduplicated master file.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/meteofetch/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
