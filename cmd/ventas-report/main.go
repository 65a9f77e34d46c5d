package main

import (
	"fmt"
	"os"

	"ventas/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
