package main

import (
	"fmt"
	"os"

	"github.com/luerfel/galaxy-bootstrap/cmd/cli"
)

const (
	exitErrorTemplateConstant = "ERROR: %v\n"
)

// main executes the galaxy-bootstrap command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
