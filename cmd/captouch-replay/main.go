package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	log "github.com/inconshreveable/log15"

	"github.com/binkynet/BinkyHardware/CapTouchSensor/calibrate"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/replay"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/touch"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/trace"
)

var (
	version = "undefined" // updated during release build
)

// eventSink is a replay sink holding a broker connection.
type eventSink interface {
	replay.Sink
	Close()
}

type dialFunc func(broker, clientID, topic string) (eventSink, error)

func dialMQTT(broker, clientID, topic string) (eventSink, error) {
	sink, err := replay.DialMQTT(broker, clientID, topic)
	if err != nil {
		return nil, err
	}
	return sink, nil
}

// replayArgs holds the command line arguments.
type replayArgs struct {
	input      string
	interval   time.Duration
	wavChannel uint
	cfg        touch.Config
	plot       bool
	calibrate  bool
	humWindow  time.Duration
	mqttHost   string
	mqttTopic  string
}

func main() {
	defaults := touch.DefaultConfig()
	var args replayArgs
	flag.StringVar(&args.input, "i", "", "Trace file to replay (.csv or .wav)")
	flag.DurationVar(&args.interval, "interval", 10*time.Millisecond, "Sample interval of csv traces without time column")
	flag.UintVar(&args.wavChannel, "channel", 0, "Channel of wav traces")
	flag.IntVar(&args.cfg.Fast, "fast", defaults.Fast, "Time constant of the fast follower")
	flag.IntVar(&args.cfg.Slow, "slow", defaults.Slow, "Time constant of the slow follower")
	flag.IntVar(&args.cfg.Delta, "delta", defaults.Delta, "Crossover delta")
	flag.BoolVar(&args.cfg.Falling, "falling", false, "A touch lowers the reading")
	flag.BoolVar(&args.plot, "plot", false, "Print a plot line per sample on stdout")
	flag.BoolVar(&args.calibrate, "calibrate", false, "Derive a delta from the trace before replaying it")
	flag.DurationVar(&args.humWindow, "hum", 20*time.Millisecond, "Hum window (one mains period), 0 to disable")
	flag.StringVar(&args.mqttHost, "mqtt", "", "Host:port of an MQTT broker to publish events to")
	flag.StringVar(&args.mqttTopic, "topic", "captouch/events", "MQTT topic for events")
	verbose := flag.Bool("v", false, "Print more verbose messages")
	versionFlag := flag.Bool("V", false, "Print version and exit")
	flag.Parse()
	args.cfg.Initial = defaults.Initial

	if *versionFlag {
		fmt.Printf("captouch-replay - version %s\n", version)
		os.Exit(0)
	}

	logLevel := log.LvlInfo
	if *verbose {
		logLevel = log.LvlDebug
	}
	// Plot lines go to stdout, keep log messages out of them.
	log.Root().SetHandler(log.LvlFilterHandler(logLevel, log.StderrHandler))

	if args.input == "" {
		log.Error("No trace file given, use -i")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, args, os.Stdout, dialMQTT)
	cancel()
	if err != nil {
		log.Error("Replay failed", "err", err)
		os.Exit(1)
	}
}

// run replays the trace file. Everything opened here is closed before
// it returns.
func run(ctx context.Context, args replayArgs, stdout io.Writer, dial dialFunc) error {
	samples, err := readTrace(args.input, args.interval, args.wavChannel)
	if err != nil {
		return fmt.Errorf("failed to read trace %s: %w", args.input, err)
	}
	log.Info("Trace loaded", "file", args.input, "samples", len(samples))

	cfg := args.cfg
	if args.calibrate {
		opts := calibrate.DefaultOptions()
		opts.Fast, opts.Slow = cfg.Fast, cfg.Slow
		result, err := calibrate.Delta(trace.Values(samples), opts)
		if err != nil {
			return fmt.Errorf("calibration failed: %w", err)
		}
		log.Info("Calibrated", "delta", result.Delta,
			"noise-mean", result.NoiseMean, "noise-stddev", result.NoiseStdDev, "noise-max", result.NoiseMax,
			"max-delta", result.MaxDelta, "crossings", result.Crossings,
			"rising", result.Positive, "falling", result.Negative)
		cfg.Delta = result.Delta
	}

	opts := replay.DefaultOptions()
	opts.Logger = log.New("trace", filepath.Base(args.input))
	opts.HumWindow = args.humWindow
	if args.plot {
		opts.Plot = stdout
	}
	if args.mqttHost != "" {
		broker := fmt.Sprintf("tcp://%s", args.mqttHost)
		sink, err := dial(broker, fmt.Sprintf("captouch-replay-%d", rand.Int31()), args.mqttTopic)
		if err != nil {
			return fmt.Errorf("failed to connect to MQTT broker %s: %w", broker, err)
		}
		defer sink.Close()
		log.Info("Publishing events", "broker", broker, "topic", args.mqttTopic)
		opts.Sink = sink
	}

	sum, err := replay.Run(ctx, samples, cfg, opts)
	if err != nil {
		return err
	}
	log.Info("Replay done", "samples", sum.Samples, "touches", sum.Touches, "releases", sum.Releases,
		"state", sum.FinalState, "delta-envelope", sum.DeltaEnvelope, "max-delta-envelope", sum.MaxDeltaEnvelope,
		"hum", sum.HumLevel)
	return nil
}

func readTrace(path string, interval time.Duration, channel uint) ([]trace.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return trace.ReadWAV(f, channel)
	}
	return trace.ReadCSV(f, interval)
}
