// Idiomatic entrypoint for the Cobra CLI that delegates handling to the
// root command in cmd/root.go.
package main

import (
	"tawindow/cmd"
)

func main() {
	cmd.Execute()
}
