package main

import (
	"os"

	"github.com/camuig/trade-quest/cmd/questctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
