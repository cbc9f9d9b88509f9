package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/herald/cmd/herald"
	"github.com/arthur-debert/herald/pkg/style"
)

func main() {
	rootCmd := herald.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		renderer := style.NewRenderer(style.FormatAuto)
		fmt.Fprintln(os.Stderr, renderer.RenderError(err))
		os.Exit(1)
	}
}
