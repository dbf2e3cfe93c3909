package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/soocke/rootmark-go/app"
	"github.com/soocke/rootmark-go/config"
)

func main() {
	var (
		cfgPath   string
		imagePath string
		patches   int
		logLevel  string
		debugFlag bool
	)

	root := &cobra.Command{
		Use:   "rootmark",
		Short: "Interactive ground-truth mask editor for patch-tiled images",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("patches") {
				cfg.PatchesPerSide = patches
			}
			if debugFlag {
				cfg.Debug = true
			}
			_ = cfg.Validate()

			logger := NewLogger(ParseLevel(logLevel))
			c := app.BuildContainer(cfg, logger, cfgPath)
			application := app.NewApp("Rootmark", 900, 760, c, cfgPath, imagePath)
			application.Start()
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "rootmark.json", "path to the JSON config file")
	root.Flags().StringVar(&imagePath, "image", "", "image to open (png, jpeg or tiff)")
	root.Flags().IntVar(&patches, "patches", 10, "patches per side of the grid")
	root.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.Flags().BoolVar(&debugFlag, "debug", false, "enable debug instrumentation")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
