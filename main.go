package main

import (
	"os"

	"github.com/spigell/ww-junior-hunter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
