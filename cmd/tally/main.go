package main

import "github.com/lachiem1/tally/internal/cli"

func main() {
	cli.Execute()
}
