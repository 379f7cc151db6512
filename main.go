package main

import (
	"os"

	"github.com/mathtrail/mathtrail/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
