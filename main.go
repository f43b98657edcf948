package main

import (
	"os"

	"github.com/interviewace/interviewace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
