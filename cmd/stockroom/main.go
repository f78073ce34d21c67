package main

import (
	"fmt"
	"os"

	"github.com/dimitrije/stockroom/internal/cli"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}
