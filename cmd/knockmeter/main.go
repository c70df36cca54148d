package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tapworks/knockmeter/internal/capture"
	"github.com/tapworks/knockmeter/internal/cli"
	"github.com/tapworks/knockmeter/internal/logging"
	"github.com/tapworks/knockmeter/internal/meter"
	"github.com/tapworks/knockmeter/internal/ui"
)

var (
	version = "0.0.1"
)

var logger = logrus.New()

// CLI defines the command-line interface
type CLI struct {
	Version     bool           `short:"v" help:"Show version information"`
	ListDevices bool           `short:"l" help:"List capture devices and exit"`
	Device      *int           `short:"d" env:"KNOCKMETER_DEVICE" help:"Capture device index from --list-devices (system default when omitted)"`
	Minutes     *float64       `short:"m" env:"KNOCKMETER_MINUTES" help:"Session length in minutes (interactive setup when omitted)"`
	Counts      bool           `short:"c" env:"KNOCKMETER_COUNTS" help:"Show running totals on every knock"`
	Format      capture.Format `env:"KNOCKMETER_FORMAT" default:"f32" enum:"f32,s16,s24,s32,u8" help:"Sample format to request from the device"`
	Rate        uint32         `env:"KNOCKMETER_RATE" default:"44100" help:"Sample rate in Hz"`
	Channels    uint32         `env:"KNOCKMETER_CHANNELS" default:"1" help:"Capture channel count"`
	Logs        bool           `help:"Save a session report log"`
	Verbose     bool           `help:"Enable debug logging"`
}

// Validate rejects values the struct tags cannot express.
func (c *CLI) Validate() error {
	if c.Minutes != nil {
		if m := *c.Minutes; m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
			return fmt.Errorf("minutes must be a positive number")
		}
	}
	if c.Rate == 0 {
		return fmt.Errorf("rate must be a positive sample rate")
	}
	if c.Channels == 0 {
		return fmt.Errorf("channels must be at least 1")
	}
	return nil
}

func main() {
	// A .env file is optional; real environment variables and flags win
	_ = godotenv.Load()

	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("knockmeter"),
		kong.Description("Adaptive knock counter for timed practice sessions"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)
	if cliArgs.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}

	if err := run(cliArgs); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// run owns every resource with a teardown so that deferred cleanup
// survives all exit paths. Operator abort and wizard cancellation are
// normal returns, not errors.
func run(cliArgs *CLI) error {
	audio, err := capture.NewContext(logger)
	if err != nil {
		return err
	}
	defer audio.Close()

	devices, err := audio.Devices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return fmt.Errorf("no capture devices found")
	}

	if cliArgs.ListDevices {
		for _, d := range devices {
			fmt.Println(d.String())
		}
		return nil
	}

	showCounts := cliArgs.Counts
	var minutes float64
	if cliArgs.Minutes != nil {
		minutes = *cliArgs.Minutes
	}

	var device *capture.Device
	if cliArgs.Device != nil {
		idx := *cliArgs.Device
		if idx < 0 || idx >= len(devices) {
			return fmt.Errorf("device index %d out of range (0-%d)", idx, len(devices)-1)
		}
		device = &devices[idx]
	}

	// No session length on the command line means interactive setup.
	if cliArgs.Minutes == nil {
		selection, ok, err := ui.Run(devices)
		if err != nil {
			return fmt.Errorf("setup failed: %w", err)
		}
		if !ok {
			return nil
		}
		minutes = selection.Minutes
		showCounts = selection.ShowCounts
		if device == nil {
			device = &selection.Device
		}
	}

	cfg := meter.DefaultConfig()
	cfg.TimeLimit = time.Duration(minutes * float64(time.Minute))

	monitor := meter.NewMonitor(cfg)

	stream, err := audio.Open(capture.Config{
		Device:     device,
		Format:     cliArgs.Format,
		SampleRate: cliArgs.Rate,
		Channels:   cliArgs.Channels,
	}, monitor.Ingest)
	if err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}
	defer stream.Close()

	deviceName := "system default"
	if device != nil {
		deviceName = device.Name
	}
	logger.WithFields(logrus.Fields{
		"device":  deviceName,
		"format":  cliArgs.Format,
		"rate":    cliArgs.Rate,
		"minutes": minutes,
	}).Debug("Session starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startTime := time.Now()
	reporter := logging.NewReporter(os.Stdout, showCounts)

	summary, err := monitor.Run(ctx, reporter)
	if err != nil {
		logger.WithError(err).Debug("Session loop stopped")
	}

	if cliArgs.Logs {
		path, err := logging.GenerateReport(logging.ReportData{
			SessionID:  uuid.New(),
			Device:     deviceName,
			Format:     string(cliArgs.Format),
			SampleRate: cliArgs.Rate,
			Channels:   cliArgs.Channels,
			StartTime:  startTime,
			EndTime:    time.Now(),
			Summary:    summary,
		})
		if err != nil {
			logger.WithError(err).Warn("Failed to write session report")
		} else {
			fmt.Printf("Session report saved to %s\n", path)
		}
	}

	return nil
}
