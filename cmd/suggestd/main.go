package main

import (
	"github.com/NVIDIA/suggestd/pkg/cli"
)

func main() {
	cli.Execute()
}
