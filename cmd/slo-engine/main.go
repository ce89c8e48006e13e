package main

import (
	"os"

	"github.com/miradorstack/mirador-slo/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
