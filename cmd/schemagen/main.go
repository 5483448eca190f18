package main

import (
	"os"

	"github.com/conduit-lang/schemagen/internal/cli/commands"
)

func main() {
	os.Exit(commands.Execute())
}
