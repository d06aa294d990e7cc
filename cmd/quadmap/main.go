// Command quadmap maps application entities onto RDF quad stores.
package main

import (
	"os"

	"github.com/roach88/quadmap/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
