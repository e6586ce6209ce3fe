package main

import (
	"os"

	"github.com/takoeight0821/loxfront/cmd/loxfront/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
