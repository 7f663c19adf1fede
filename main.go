package main

import "github.com/laluke1/camptrack/cli"

func main() {
	cli.Execute()
}
