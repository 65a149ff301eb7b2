package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fsnotify/fsnotify"
	slides "github.com/rmonnet/java7-new-features"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var httpAddr string

var serveCommand = cli.Command{
	Name:        "serve",
	Aliases:     []string{"s"},
	Description: "Serve the presentation on a webserver",
	Usage:       "serve [--addr :8080] <source>",
	ArgsUsage:   "<source>",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:        "addr",
			Usage:       "Specify the address to listen on",
			Value:       ":8080",
			Destination: &httpAddr,
		},
	},
	Action: func(ctx *cli.Context) (err error) {
		source := ctx.Args().First()
		if source == "" {
			return cli.NewExitError("a source document is required", 1)
		}

		cctx := context.Background()
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

		var server *slides.PresentationServer

		server, err = slides.NewPresentationServer(cctx, presentation, source, httpAddr)
		if err != nil {
			return
		}
		fmt.Printf("Serving presentation on %s\n", httpAddr)
		server.Run()

		// Remote sources have nothing to watch.
		if _, statErr := os.Stat(source); statErr == nil {
			watcher, werr := fsnotify.NewWatcher()
			if werr != nil {
				return werr
			}
			if werr := watcher.Add(source); werr != nil {
				return werr
			}

			go func() {
				for {
					select {
					case <-cctx.Done():
						return
					case evt := <-watcher.Events:
						switch {
						case evt.Op.Has(fsnotify.Write),
							evt.Op.Has(fsnotify.Create),
							evt.Op.Has(fsnotify.Remove),
							evt.Op.Has(fsnotify.Rename):
							logrus.WithField("file", evt.Name).Info("source changed, rerendering")
							if rerr := server.Rerender(); rerr != nil {
								logrus.WithError(rerr).Error("rerender failed")
							}
						}
					}
				}
			}()
		}

		<-c
		server.Close()
		return
	},
}
