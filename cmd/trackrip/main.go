// Command trackrip downloads batches of audio tracks described by a JSON
// manifest, encodes them to wav, mp3 or flac and lays them out under a
// destination directory. Finished tracks are remembered, so rerunning the
// same manifest only fetches what is missing.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/rosenkrans/trackrip/internal/config"
	"github.com/rosenkrans/trackrip/internal/download"
	"github.com/rosenkrans/trackrip/internal/progress"
	"github.com/rosenkrans/trackrip/internal/source"
	"github.com/rosenkrans/trackrip/internal/tui"
)

const version = "0.1.0"

func main() {
	app := &cli.Command{
		Name:    "trackrip",
		Usage:   "Download, encode and organize batches of audio tracks",
		Version: version,
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "manifest",
				UsageText: "path to the track manifest (JSON)",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Destination directory for downloads",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Audio format: wav, mp3 or flac",
			},
			&cli.StringFlag{
				Name:  "structure",
				Usage: "Folder structure: flat or album",
			},
			&cli.IntFlag{
				Name:    "parallel",
				Aliases: []string{"p"},
				Usage:   "Number of parallel downloads",
			},
			&cli.IntFlag{
				Name:  "compression",
				Usage: "FLAC compression level (0-12)",
			},
			&cli.BoolFlag{
				Name:  "playlist",
				Usage: "Write an M3U playlist for the batch",
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Maximum remote requests per second (0 = unlimited)",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Log progress instead of drawing the interactive display",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if cmd.Bool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}

	manifestPath := cmd.StringArg("manifest")
	if manifestPath == "" {
		return fmt.Errorf("manifest path is required")
	}

	settings, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	applyFlags(settings, cmd)

	opts, err := settings.ToOptions()
	if err != nil {
		return err
	}

	manifest, err := source.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	tracks := manifest.Requests()
	if len(tracks) == 0 {
		logger.Warn("manifest lists no tracks")
		return nil
	}
	logger.Info("starting batch", "tracks", len(tracks), "format", settings.Format)

	svc := source.NewService(manifest, settings.RateLimit)

	var sink progress.Sink
	var ui *tui.UI
	if cmd.Bool("plain") {
		sink = progress.NewLogSink(logger)
	} else {
		ui = tui.New()
		ui.Start()
		sink = ui
		// The display owns the terminal while it runs.
		logger.SetOutput(io.Discard)
	}

	d := download.New(download.Collaborators{
		Metadata: svc,
		Audio:    svc,
		Art:      svc,
		Progress: sink,
		Logger:   logger,
	})

	downloadErr := d.DownloadTracks(ctx, tracks, opts)

	if ui != nil {
		logger.SetOutput(os.Stderr)
		if err := ui.Stop(); err != nil {
			logger.Warn("display exited uncleanly", "err", err)
		}
	}

	if downloadErr != nil {
		return downloadErr
	}
	logger.Info("batch complete", "tracks", len(tracks), "destination", opts.Destination)
	return nil
}

// applyFlags overlays any flags set on the command line over the settings
// file.
func applyFlags(settings *config.Settings, cmd *cli.Command) {
	if cmd.IsSet("output") {
		settings.Destination = cmd.String("output")
	}
	if cmd.IsSet("format") {
		settings.Format = cmd.String("format")
	}
	if cmd.IsSet("structure") {
		settings.FolderStructure = cmd.String("structure")
	}
	if cmd.IsSet("parallel") {
		settings.Parallel = cmd.Int("parallel")
	}
	if cmd.IsSet("compression") {
		settings.Compression = cmd.Int("compression")
	}
	if cmd.IsSet("playlist") {
		settings.Playlist = cmd.Bool("playlist")
	}
	if cmd.IsSet("rate-limit") {
		settings.RateLimit = cmd.Float("rate-limit")
	}
}
