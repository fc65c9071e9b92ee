// Command polaroid composes a photo and a caption into a polaroid print.
package main

import (
	"os"

	"github.com/gogpu/polaroid/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
