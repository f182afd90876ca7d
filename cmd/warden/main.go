// Command warden governs a shared, rate-limited board API for independent
// automation callers: admission-checked reads and writes, a TTL-bound
// response cache, and lifecycle-validated status updates.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}
