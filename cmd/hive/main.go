package main

import (
	"os"

	"github.com/taskhive/hive/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
