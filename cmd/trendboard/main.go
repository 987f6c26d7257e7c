// Package main is the entry point for the trendboard CLI.
package main

import (
	"github.com/spektr-org/trendboard/internal/cmd"
)

func main() {
	cmd.Execute()
}
