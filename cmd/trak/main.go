package main

import (
	"os"

	"github.com/trak-cli/trak/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
