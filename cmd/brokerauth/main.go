package main

import (
	"github.com/meridian-labs/brokerauth-cli/internal/adapters/driving/cli"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
