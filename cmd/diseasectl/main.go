// Package main is the entry point for the diseasectl terminal client.
package main

import (
	"os"

	"github.com/giygas/disease-dashboard/cmd/diseasectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
