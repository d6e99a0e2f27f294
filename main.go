package main

import "metal-rates/internal/cli"

func main() {
	cli.Execute()
}
