package main

import (
	"fmt"
	"os"

	"github.com/Octacer/linux-setup/internal/routectl"
	"github.com/Octacer/linux-setup/internal/tui"
)

func main() {
	args := os.Args[1:]

	var err error
	if len(args) > 0 && args[0] == "setup" {
		err = tui.StartWizard()
	} else {
		err = routectl.Run(args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
