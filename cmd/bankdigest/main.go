package main

import (
	"os"

	"github.com/bankdigest-dev/bankdigest/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
