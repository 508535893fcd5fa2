package main

import (
	"os"

	"github.com/Additional-Code/orderloader/internal/cli"
	"github.com/Additional-Code/orderloader/pkg/errorbank"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(errorbank.From(err).ExitCode())
	}
}
