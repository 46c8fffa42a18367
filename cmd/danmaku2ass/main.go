package main

import (
	"os"

	"github.com/mgpai22/danmaku2ass/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
