// Package main is the entry point for the gophauth command-line client.
package main

import (
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
