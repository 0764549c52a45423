package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/windowscene/internal/domain/display"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/config"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/logging"
	"github.com/GriffinCanCode/windowscene/internal/snapshot"
)

// arguments holds the parsed command line
type arguments struct {
	displayID    uint64
	displaySet   bool
	fileName     string
	width        int
	height       int
	format       snapshot.Format
	captureTimer time.Duration
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout))
}

func run(ctx context.Context, args []string, stdout io.Writer) int {
	parsed, err := parseArgs(args, stdout)
	if err != nil {
		fmt.Fprintf(stdout, "error: %v\n", err)
		return 1
	}

	cfg := config.LoadOrDefault()
	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()

	layout, err := cfg.LayoutOrDefault()
	if err != nil {
		fmt.Fprintf(stdout, "error: %v\n", err)
		return 1
	}
	dm, err := display.NewManager(layout.Displays, display.WithLogger(logger.Component("display")))
	if err != nil {
		fmt.Fprintf(stdout, "error: %v\n", err)
		return 1
	}

	id, err := snapshot.ResolveDisplayID(dm, parsed.displayID, parsed.displaySet)
	if err != nil {
		fmt.Fprintf(stdout, "error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(ctx, parsed.captureTimer)
	defer cancel()

	pm, err := dm.GetScreenshot(ctx, id)
	if err != nil {
		fmt.Fprintf(stdout, "error: snapshot display %d failed: %v\n", id, err)
		return 1
	}

	width, height := pm.Width, pm.Height
	if parsed.width > 0 {
		width = parsed.width
	}
	if parsed.height > 0 {
		height = parsed.height
	}
	if pm, err = snapshot.Scale(pm, width, height); err != nil {
		fmt.Fprintf(stdout, "error: scale to %dx%d: %v\n", width, height, err)
		return 1
	}

	if err := snapshot.WritePixelMap(parsed.fileName, pm, parsed.format); err != nil {
		fmt.Fprintf(stdout, "error: snapshot write to %s failed: %v\n", parsed.fileName, err)
		return 1
	}

	logger.Info("Snapshot written",
		zap.Uint64("display_id", id),
		zap.String("file", parsed.fileName),
		zap.String("format", string(parsed.format)))
	fmt.Fprintf(stdout, "success: snapshot display %d, write to %s as %s, width %d, height %d\n",
		id, parsed.fileName, parsed.format, pm.Width, pm.Height)
	return 0
}

func parseArgs(args []string, out io.Writer) (*arguments, error) {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	fs.SetOutput(out)

	displayID := fs.String("i", "", "display id")
	fileName := fs.String("f", "", "output file in "+snapshot.Dir)
	width := fs.Int("w", 0, "output width")
	height := fs.Int("h", 0, "output height")
	format := fs.String("t", string(snapshot.FormatJpeg), "image type: jpeg or png")
	fs.Usage = func() {
		fmt.Fprintln(out, "usage: snapshot -i <displayId> -f <file> [-w width] [-h height] [-t jpeg|png]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments %v", fs.Args())
	}

	a := &arguments{width: *width, height: *height, captureTimer: 5 * time.Second}

	f, err := snapshot.ParseFormat(*format)
	if err != nil {
		return nil, err
	}
	a.format = f

	if *displayID != "" {
		id, err := strconv.ParseUint(*displayID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid display id %q", *displayID)
		}
		a.displayID, a.displaySet = id, true
	}

	a.fileName = *fileName
	if a.fileName == "" {
		a.fileName = snapshot.DefaultFileName(time.Now(), a.format)
	}
	if !snapshot.CheckFileNameValid(a.fileName, a.format) {
		return nil, fmt.Errorf("filename %s is invalid, expected %s<name>%s", a.fileName, snapshot.Dir, a.format.Ext())
	}

	if a.width != 0 && !snapshot.CheckWHValid(a.width) {
		return nil, fmt.Errorf("width %d is invalid, expected 1..%d", a.width, snapshot.MaxResolution)
	}
	if a.height != 0 && !snapshot.CheckWHValid(a.height) {
		return nil, fmt.Errorf("height %d is invalid, expected 1..%d", a.height, snapshot.MaxResolution)
	}
	return a, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return logging.Nop()
	}
	return logger
}
