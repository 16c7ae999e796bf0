// Package main provides the entry point for the pdfsearch CLI.
package main

import (
	"os"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/cmd/pdfsearch/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
