package main

import (
	"os"

	"github.com/taoky/memstat/cmd"
)

func main() {
	if err := cmd.RootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
