package main

import (
	"os"

	"github.com/Makepad-fr/tasktrackr/internal/cli"
)

var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
