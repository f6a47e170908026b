package main

import (
	"os"

	"webhost-storefront/cmd/webhostctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
