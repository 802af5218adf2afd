// Command overload builds the dispatchers declared in an overload.yaml
// manifest and lets you inspect and call them from the shell.
package main

import (
	"fmt"
	"os"
)

// Build information injected via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	a := newApp()
	a.root.Version = fmt.Sprintf("%s (commit: %s)", version, commit)
	if err := a.root.Execute(); err != nil {
		printError(os.Stderr, err, colorEnabled(os.Stderr, a.v.GetBool(flagNoColor)))
		os.Exit(1)
	}
}
