package main

import "github.com/democodex/mcp-server-automation/cli"

func main() {
	cli.Execute()
}
