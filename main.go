package main

import (
	"fmt"
	"os"

	"github.com/AnyUserName/imgbench/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[imgbench] error: %v\n", err)
		os.Exit(1)
	}
}
