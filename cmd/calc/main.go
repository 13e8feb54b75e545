// Command calc is a terminal calculator. It also evaluates key sequences
// from the command line, exports its state chart and serves sessions over
// MCP.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
