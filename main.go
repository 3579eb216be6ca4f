package main

import (
	"os"

	"github.com/covscan/covscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
