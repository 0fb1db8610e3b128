package main

import (
	"fmt"
	"os"

	"github.com/danmuck/meshdecode/cmd/meshdecode/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "meshdecode: %v\n", err)
		os.Exit(1)
	}
}
