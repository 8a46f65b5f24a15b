// Package main is the healthtrends command.
package main

import (
	"os"

	"github.com/leapstack-labs/healthtrends/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
