package main

import (
	"os"

	"cammanager/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args))
}
