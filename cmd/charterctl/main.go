package main

import (
	"os"

	"yacht_automate/cmd/charterctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
