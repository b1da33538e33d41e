package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/teranos/dolly"
	"github.com/teranos/dolly/server"
	"github.com/teranos/dolly/settings"
	"github.com/teranos/dolly/views"
)

func newServeCommand(load loader) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo page, static assets and /config.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load()
			if err != nil {
				return err
			}
			log, cleanup, err := newLogger(s)
			if err != nil {
				return err
			}
			defer cleanup()

			if addr == "" {
				addr = s.Server.Addr
			}
			if s.File != "" {
				log.WithField("file", s.File).Info("using config file")
			}

			watcher := settings.Watch(s, log, nil)
			handler := server.New(server.Options{
				Page: views.DemoPage{
					Title:    s.Server.Title,
					Panes:    s.Slider.Panes,
					Sections: 3,
				},
				StaticDir: s.Server.StaticDir,
				Timeout:   s.Server.Timeout,
				Logger:    log,
			}, func() dolly.PageConfig {
				return watcher.Current().Page()
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.ListenAndServe(ctx, addr, handler, log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")
	return cmd
}
