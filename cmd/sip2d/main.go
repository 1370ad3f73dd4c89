package main

import (
	"os"

	"github.com/libstack/go-sip2/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
