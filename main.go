package main

import (
	"os"

	"ai-setup/cmd"
)

// main delegates to cmd.Execute, which parses the command line, runs the
// selected setup and maps its outcome to the process exit code.
func main() {
	os.Exit(cmd.Execute())
}
