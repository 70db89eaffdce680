package main

import (
	"github.com/quantbay/brokerchat/internal/cli"
)

func main() {
	cli.Run()
}
