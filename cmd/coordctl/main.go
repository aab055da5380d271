// Command coordctl runs the commit coordinator's HTTP front-end and
// doubles as an operator CLI for talking to a running instance: seeding
// commits, dumping state, and toggling fault injection. Grounded on the
// teacher's cobra/viper command wiring.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
