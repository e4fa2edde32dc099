package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-orderwizard/cmd/orderwizard-cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
