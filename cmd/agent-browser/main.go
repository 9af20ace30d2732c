package main

import (
	"os"

	"github.com/agentbrowser/agent-browser/internal/cli"
)

func main() {
	code := cli.Run(os.Args[1:])
	os.Exit(code)
}
