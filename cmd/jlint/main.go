package main

import (
	"github.com/tebeka/atexit"

	"github.com/gnolang/jlint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		atexit.Exit(1)
	}
}
