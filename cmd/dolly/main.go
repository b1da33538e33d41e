// Command dolly previews the slider engine in a terminal and serves the demo
// page for the browser build.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/teranos/dolly/settings"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "dolly",
		Short:         "Slider and carousel engine for project pages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (default: search for dolly.yaml)")

	load := func() (*settings.Settings, error) {
		s, err := settings.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return s, nil
	}

	root.AddCommand(
		newPreviewCommand(load),
		newServeCommand(load),
		newVersionCommand(),
	)
	return root
}

type loader func() (*settings.Settings, error)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dolly %s\n", version)
		},
	}
}

func newLogger(s *settings.Settings) (*logrus.Logger, func(), error) {
	l, cleanup, err := settings.NewLogger(s.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return l, cleanup, nil
}
