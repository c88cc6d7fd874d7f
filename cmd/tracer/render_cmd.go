package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gazed/tracer/format"
	"github.com/gazed/tracer/render"
	"github.com/gazed/tracer/shading"
	"github.com/gazed/tracer/viewer"
)

func newRenderCmd() *cobra.Command {
	var configPath, outPNG, outFB, viewerAddr string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the demo scene and write a preview image",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := render.DefaultConfig()
			if configPath != "" {
				f, err := os.Open(configPath)
				if err != nil {
					return fmt.Errorf("open config: %w", err)
				}
				defer f.Close()
				cfg, err = render.LoadConfig(f)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}

			cam, world, lights := shading.DemoScene()

			var cb render.Callbacks
			if viewerAddr != "" {
				cb = viewer.Callbacks(viewer.NewClient(viewerAddr))
			}
			r := render.NewRenderer(cfg, cam, world, lights, cb)

			seed := uint64(time.Now().UnixNano())
			if err := r.RenderScene(context.Background(), seed); err != nil {
				return fmt.Errorf("render: %w", err)
			}

			fb := r.Framebuffer()

			if outPNG != "" {
				out, err := os.Create(outPNG)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPNG, err)
				}
				defer out.Close()
				if err := format.WritePreviewPNG(out, fb); err != nil {
					return fmt.Errorf("write preview: %w", err)
				}
				cmd.Println("wrote", outPNG)
			}

			if outFB != "" {
				out, err := os.Create(outFB)
				if err != nil {
					return fmt.Errorf("create %s: %w", outFB, err)
				}
				defer out.Close()
				view := format.IntBox{XMin: 0, YMin: 0, XMax: int32(cfg.ResX), YMax: int32(cfg.ResY)}
				if err := format.WriteFramebuffer(out, fb, view, view); err != nil {
					return fmt.Errorf("write framebuffer: %w", err)
				}
				cmd.Println("wrote", outFB)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML render.Config file (defaults to render.DefaultConfig)")
	cmd.Flags().StringVar(&outPNG, "out", "render.png", "PNG preview output path (empty to skip)")
	cmd.Flags().StringVar(&outFB, "fb", "", "raw .fb framebuffer output path (empty to skip)")
	cmd.Flags().StringVar(&viewerAddr, "viewer", "", "report frame/tile progress to a viewer at host:port (empty to disable)")
	return cmd
}
