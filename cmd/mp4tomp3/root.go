package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/backmassage/mp4tomp3/internal/check"
	"github.com/backmassage/mp4tomp3/internal/config"
	"github.com/backmassage/mp4tomp3/internal/convert"
	"github.com/backmassage/mp4tomp3/internal/display"
	"github.com/backmassage/mp4tomp3/internal/ffmpeg"
	"github.com/backmassage/mp4tomp3/internal/logging"
	"github.com/backmassage/mp4tomp3/internal/pipeline"
	"github.com/backmassage/mp4tomp3/internal/probe"
	"github.com/backmassage/mp4tomp3/internal/term"
)

// Process exit codes.
const (
	exitOK          = 0
	exitFailures    = 1 // at least one file failed
	exitUsage       = 2 // bad flags, config, input path, or missing tools
	exitInterrupted = 130
)

// run executes the CLI with args and returns the process exit code.
func run(args []string) int {
	code := exitOK
	cmd := newRootCommand(&code)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mp4tomp3: %v\n", err)
		return exitUsage
	}
	return code
}

func newRootCommand(code *int) *cobra.Command {
	var flags config.Flags

	cmd := &cobra.Command{
		Use:           "mp4tomp3 [flags] <input>",
		Short:         "Convert the audio of MP4/M4V/MOV files to MP3",
		Long:          "mp4tomp3 converts one file, or every MP4/M4V/MOV file in a directory, to MP3.\nIn auto mode MP3 audio is copied, AAC is re-encoded VBR, and anything else CBR.",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*code = convertCommand(cmd.Flags(), &flags, args)
			return nil
		},
	}
	config.BindFlags(cmd.Flags(), &flags)
	// Cobra only adds -v for --version when free; -v is --verbose here.
	cmd.Flags().BoolP("version", "V", false, "Print version and exit")
	return cmd
}

func convertCommand(fs *pflag.FlagSet, flags *config.Flags, args []string) int {
	// Bootstrap: the logger doesn't exist yet, so errors go to stderr via fmt.
	cfg := config.DefaultConfig()
	if _, err := config.LoadFile(flags.ConfigPath, &cfg); err != nil {
		return usageError(err)
	}
	if err := config.ApplyFlags(fs, flags, args, &cfg); err != nil {
		return usageError(err)
	}

	inputIsDir := false
	if !cfg.CheckOnly {
		fi, err := os.Stat(cfg.Input)
		if err != nil {
			return usageError(fmt.Errorf("input: %w", err))
		}
		inputIsDir = fi.IsDir()
	}

	var prompter config.Prompter
	if term.Interactive() {
		prompter = config.NewLinePrompter(os.Stdin, os.Stdout)
	}
	if err := config.Resolve(&cfg, inputIsDir, prompter); err != nil {
		return usageError(err)
	}
	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		return usageError(err)
	}
	defer log.Close()

	// From here on all output goes through log.
	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return exitFailures
		}
		return exitOK
	}

	tools, err := check.CheckDeps(&cfg)
	if err != nil {
		log.Error("%v", err)
		if errors.Is(err, check.ErrNoMP3Encoder) {
			log.Error("Install an ffmpeg build with libmp3lame, then run --check")
		}
		return exitUsage
	}
	log.Debug("ffmpeg: %s", tools.FFmpeg)
	log.Debug("ffprobe: %s", tools.FFprobe)
	if cfg.ConfigFile != "" {
		log.Debug("config: %s", cfg.ConfigFile)
	}

	// Cancel on SIGINT/SIGTERM: the running ffmpeg is killed, its partial
	// output removed, and no further files are started.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	watchInterrupt(ctx, cancel, sigCh, log)

	prober := &probe.FFprobe{Path: tools.FFprobe, Timeout: cfg.ProbeTimeout}
	files := pipeline.Walk(cfg.Input, cfg.Recursive, cfg.Extensions)

	if cfg.Analyze {
		res := pipeline.Analyze(ctx, &cfg, log, prober, files)
		switch {
		case res.Interrupted:
			return exitInterrupted
		case res.Failed > 0:
			return exitFailures
		}
		return exitOK
	}

	driver := &pipeline.Driver{
		Cfg:    &cfg,
		Log:    log,
		Prober: prober,
		Converter: &convert.Invoker{
			Encoder: &ffmpeg.Runner{Path: tools.FFmpeg, Verbose: cfg.Verbose},
		},
	}
	summary := driver.Run(ctx, files)

	switch {
	case summary.Interrupted:
		return exitInterrupted
	case len(summary.Failed) > 0:
		return exitFailures
	}
	return exitOK
}

// stopSignals is replaced in tests.
var stopSignals = signal.Stop

// watchInterrupt cancels the run on the first signal received on sigCh, then
// unregisters sigCh so a second interrupt terminates the process.
func watchInterrupt(ctx context.Context, cancel context.CancelFunc, sigCh chan os.Signal, log *logging.Logger) {
	go func() {
		select {
		case <-sigCh:
			log.Warn("Received interrupt, stopping (press Ctrl-C again to force quit)")
			cancel()
			stopSignals(sigCh)
		case <-ctx.Done():
		}
	}()
}

func usageError(err error) int {
	fmt.Fprintf(os.Stderr, "mp4tomp3: %v\n", err)
	return exitUsage
}
