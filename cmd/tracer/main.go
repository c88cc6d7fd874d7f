// Command tracer is the render core's CLI front-end: it loads a YAML
// render.Config, builds a scene, drives render.Renderer.RenderScene to
// completion, and writes the resulting framebuffer out as a PNG
// preview and/or a raw .fb file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
