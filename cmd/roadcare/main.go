// Package main provides the roadcare command-line client. The credential
// lives in a user-only file and every command passes the portal's route guard.
package main

import (
	"fmt"
	"os"
)

const (
	Version = "1.0.0"
	appName = "roadcare"
)

func main() {
	if err := rootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
