package main

import (
	"github.com/tsenwang/hipBLASLt/pkg/cli"
)

func main() {
	cli.Execute()
}
