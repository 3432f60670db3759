package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"hostelpass/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, pterm.Error.Sprint(err))
		os.Exit(1)
	}
}
