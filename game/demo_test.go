package game

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/pthm-cable/lightseeker/components"
)

func TestRunDemoStartsAtCentre(t *testing.T) {
	cfg := testConfig(t)

	for seed := int64(1); seed <= 25; seed++ {
		trace, err := RunDemo(cfg, rand.New(rand.NewSource(seed)), nil)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if trace.Before != (components.Position{X: 50, Y: 50}) {
			t.Fatalf("seed %d: demo started at %s", seed, trace.Before)
		}
		if trace.Direction != trace.Readings.Best() {
			t.Errorf("seed %d: chose %s, brightest is %s", seed, trace.Direction, trace.Readings.Best())
		}
		if trace.Movement != trace.Direction.Vector() {
			t.Errorf("seed %d: movement %s does not match %s", seed, trace.Movement, trace.Direction)
		}
		if !trace.Moved || trace.After != trace.Before.Add(trace.Movement) {
			t.Errorf("seed %d: moved=%v after=%s", seed, trace.Moved, trace.After)
		}
	}
}

func TestRunDemoLightAtCentre(t *testing.T) {
	cfg := testConfig(t)
	light := components.Position{X: 50, Y: 50}

	trace, err := RunDemo(cfg, rand.New(rand.NewSource(1)), &light)
	if err != nil {
		t.Fatal(err)
	}
	if trace.Direction != components.North {
		t.Errorf("direction = %s, want north on a four-way tie", trace.Direction)
	}
	if trace.After != (components.Position{X: 50, Y: 49}) {
		t.Errorf("after = %s, want (50, 49)", trace.After)
	}
}

func TestLogDemo(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(&buf)
	t.Cleanup(func() { SetLogWriter(nil) })

	cfg := testConfig(t)
	light := components.Position{X: 70, Y: 50}
	trace, err := RunDemo(cfg, rand.New(rand.NewSource(1)), &light)
	if err != nil {
		t.Fatal(err)
	}
	LogDemo(trace)

	out := buf.String()
	for _, want := range []string{
		"PHASE 1: SENSE",
		"PHASE 2: THINK",
		"PHASE 3: ACT",
		"Brightest direction: east",
		"Decided movement: (1, 0)",
		"New position: (51, 50)",
		"Movement successful: true",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("demo output missing %q", want)
		}
	}
}
