package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	log "github.com/inconshreveable/log15"

	"github.com/binkynet/BinkyHardware/CapTouchSensor/replay"
	"github.com/binkynet/BinkyHardware/CapTouchSensor/touch"
)

func init() {
	log.Root().SetHandler(log.DiscardHandler())
}

type fakeSink struct {
	events []replay.Event
	closed bool
}

func (s *fakeSink) Publish(ctx context.Context, ev replay.Event) error {
	s.events = append(s.events, ev)
	return nil
}

func (s *fakeSink) Close() { s.closed = true }

// fakeDialer hands out a single fakeSink.
type fakeDialer struct {
	sink   *fakeSink
	broker string
	topic  string
	err    error
}

func (d *fakeDialer) dial(broker, clientID, topic string) (eventSink, error) {
	d.broker, d.topic = broker, topic
	if d.err != nil {
		return nil, d.err
	}
	d.sink = &fakeSink{}
	return d.sink, nil
}

func writeTrace(t *testing.T, values []int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("# test trace\n")
	for _, v := range values {
		sb.WriteString(strconv.Itoa(v))
		sb.WriteByte('\n')
	}
	path := filepath.Join(t.TempDir(), "trace.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func testArgs(input string) replayArgs {
	return replayArgs{
		input:     input,
		interval:  time.Millisecond,
		cfg:       touch.DefaultConfig(),
		mqttHost:  "broker:1883",
		mqttTopic: "test/events",
	}
}

func TestRunPublishesAndCloses(t *testing.T) {
	var values []int
	for i := 0; i < 50; i++ {
		values = append(values, 500)
	}
	for i := 0; i < 300; i++ {
		values = append(values, 600)
	}
	for i := 0; i < 300; i++ {
		values = append(values, 500)
	}
	args := testArgs(writeTrace(t, values))
	args.plot = true

	d := &fakeDialer{}
	var stdout bytes.Buffer
	if err := run(context.Background(), args, &stdout, d.dial); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if d.broker != "tcp://broker:1883" || d.topic != "test/events" {
		t.Errorf("dialed %s %s", d.broker, d.topic)
	}
	if len(d.sink.events) != 2 {
		t.Fatalf("published %d events, want 2", len(d.sink.events))
	}
	if !d.sink.closed {
		t.Fatal("sink not closed")
	}
	if lines := strings.Count(stdout.String(), "\n"); lines != len(values)-1 {
		t.Errorf("%d plot lines, want %d", lines, len(values)-1)
	}
}

func TestRunClosesSinkWhenReplayFails(t *testing.T) {
	d := &fakeDialer{}
	err := run(context.Background(), testArgs(writeTrace(t, nil)), &bytes.Buffer{}, d.dial)
	if !errors.Is(err, replay.ErrEmptyTrace) {
		t.Fatalf("run() error = %v, want %v", err, replay.ErrEmptyTrace)
	}
	if d.sink == nil || !d.sink.closed {
		t.Fatal("sink not closed after failed replay")
	}
}

func TestRunErrors(t *testing.T) {
	errDial := errors.New("connection refused")
	d := &fakeDialer{err: errDial}
	if err := run(context.Background(), testArgs(writeTrace(t, []int{500, 500})), &bytes.Buffer{}, d.dial); !errors.Is(err, errDial) {
		t.Errorf("run() error = %v, want %v", err, errDial)
	}
	missing := filepath.Join(t.TempDir(), "missing.csv")
	if err := run(context.Background(), testArgs(missing), &bytes.Buffer{}, d.dial); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("run() error = %v, want %v", err, os.ErrNotExist)
	}
}
