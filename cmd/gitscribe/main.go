package main

import (
	"os"

	"github.com/dshills/gitscribe/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
