package main

import (
	"os"

	"github.com/dshills/prscan/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
