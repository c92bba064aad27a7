package main

import (
	"os"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/cli"
)

var version = "0.1.0"

func main() {
	os.Exit(cli.Execute(version))
}
