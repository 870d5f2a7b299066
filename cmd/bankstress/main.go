package main

import "github.com/rustyeddy/bankstress/internal/cli"

func main() {
	cli.Execute()
}
