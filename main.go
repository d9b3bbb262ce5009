package main

import (
	"fmt"
	"os"

	"github.com/reforgerctl/reforgerctl/commands"
)

var version = "master"

func main() {
	err := commands.Run(os.Args, version)
	if err != nil {
		fmt.Printf("Exited with error: %v\n", err)
		os.Exit(1)
	}
}
