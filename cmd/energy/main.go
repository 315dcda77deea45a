// ABOUTME: Entry point for the energy CLI.
// ABOUTME: Invokes the root Cobra command and exits non-zero on error.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
