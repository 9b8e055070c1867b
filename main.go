package main

import "github.com/maastricht-university/edmo-diareval/cli"

func main() {
	cli.Main()
}
