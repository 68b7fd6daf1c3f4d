// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command ukern assembles user programs and runs them under the
// round-robin kernel on the emulated board.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
