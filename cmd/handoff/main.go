// Package main implements the handoff CLI.
//
// handoff prompts for a string, an integer and a floating-point value,
// seeds a shared record with them and runs the two-worker handshake:
//
//	handoff                       # run with ~/.config/handoff/config.yaml
//	handoff --wait spin --audit   # busy-wait, check ordering
//	handoff config init           # write the default config file
//	handoff version               # show version information
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
