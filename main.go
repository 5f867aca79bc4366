package main

import (
	"os"

	"github.com/heymarley/writebot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
