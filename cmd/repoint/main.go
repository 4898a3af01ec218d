package main

import (
	"fmt"
	"os"

	"github.com/sokinpui/repoint"
)

func main() {
	if err := repoint.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
