package main

import "github.com/LeJamon/goRippled/internal/cli"

func main() {
	cli.Execute()
}
