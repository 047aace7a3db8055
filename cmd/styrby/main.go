package main

import (
	"os"

	"styrby/cmd/styrby/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
