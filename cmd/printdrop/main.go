// Command printdrop receives raw print jobs on TCP port 9100 and imports the
// PDFs they carry into the reader's document directory.
package main

import (
	"os"

	"github.com/custodia-labs/printdrop/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
