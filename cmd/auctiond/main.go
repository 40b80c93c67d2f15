package main

import "github.com/coreauction/auctiond/internal/cli"

func main() {
	cli.Execute()
}
