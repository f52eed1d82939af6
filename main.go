package main

import (
	"os"

	"github.com/alidoner/orderbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
