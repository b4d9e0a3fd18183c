// The main package for the sitescout executable.
package main

import (
	"sitescout/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
