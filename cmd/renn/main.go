// Package main provides the renn-go CLI.
package main

import (
	"fmt"
	"os"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("renn-go %s\n", version)
		return
	}

	fmt.Println("renn-go - Reverse Engineering Recurrent Neural Networks in Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("")
	fmt.Println("See examples/gru-linearization for a worked linearization walkthrough.")
}
