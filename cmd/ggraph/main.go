// Command ggraph renders graphs with the ggraph engine: interactively in a
// terminal, to PNG snapshots, or in a frame-time benchmark.
package main

import (
	"os"

	_ "github.com/gogpu/wgpu/hal/noop"

	_ "github.com/gogpu/ggraph/backend/wgpu"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
