package main

import (
	"os"

	"github.com/alturath/hr-audit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
