// Command indexedlru-bench drives a synthetic, configurable workload
// against an indexedlru.Cache and logs occupancy and hit-rate statistics.
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
