package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	slides "github.com/rmonnet/java7-new-features"
	"github.com/urfave/cli"
)

var defaultDistDir = "./dist"

var renderCommand = cli.Command{
	Name:      "render",
	Aliases:   []string{"build", "r", "b"},
	Usage:     "Render the presentation into the dist dir",
	ArgsUsage: "<source> [dist-dir]",
	Action: func(ctx *cli.Context) error {
		source := ctx.Args().First()
		if source == "" {
			return cli.NewExitError("a source document is required", 1)
		}
		distDir := ctx.Args().Get(1)
		if distDir == "" {
			distDir = defaultDistDir
		}

		if err := slides.EmitAssets(distDir); err != nil {
			return err
		}

		src, err := slides.LoadSource(context.Background(), source)
		if err != nil {
			return err
		}
		indexBytes, err := slides.RenderIndex(presentation, src)
		if err != nil {
			return err
		}

		indexPath := filepath.Join(distDir, "index.html")
		if err := os.WriteFile(indexPath, indexBytes, 0666); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", indexPath)
		return nil
	},
}
