package main

import (
	"fmt"
	"os"

	slides "github.com/rmonnet/java7-new-features"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var presentation = &slides.Presentation{}

func main() {
	app := cli.NewApp()
	app.Name = "mdslides"
	app.Usage = "build presentation slide decks from a markdown document"
	app.ArgsUsage = "<markdown-file>"
	app.Version = slides.Version
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "name",
			Usage:       "Presentation name",
			Destination: &presentation.Name,
		},
		cli.StringFlag{
			Name:        "description",
			Usage:       "Presentation description",
			Destination: &presentation.Description,
		},
	}
	app.Commands = []cli.Command{
		renderCommand,
		serveCommand,
	}
	// The default action is the simple path: wrap the markdown file in a
	// standalone HTML slideshow page next to it.
	app.Action = func(ctx *cli.Context) error {
		if ctx.NArg() != 1 {
			fmt.Fprintf(os.Stderr, "usage: %s <markdown-file>\n", app.Name)
			return cli.NewExitError("exactly one markdown file is required", 1)
		}
		outputPath, err := slides.WrapFile(ctx.Args().First())
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		fmt.Printf("Wrote %s\n", outputPath)
		return nil
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
