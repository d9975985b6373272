package main

import (
	"os"

	"github.com/msto63/lauscher/cmd/lauscher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
