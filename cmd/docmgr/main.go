// Command docmgr ingests documents into a vector store and answers
// semantic search over them from the command line, HTTP or MCP.
package main

import (
	"os"

	"github.com/aditya-mahendru/docMgr/internal/adapters/driving/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
