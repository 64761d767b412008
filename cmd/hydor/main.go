package main

import (
	"github.com/hydorlang/hydor/pkg/cli"
)

func main() {
	cli.Run()
}
