package main

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/script"
)

func TestSimulateHopScript(t *testing.T) {
	source, err := script.Load("hop.tengo")
	if err != nil {
		t.Fatalf("load script: %v", err)
	}

	var trace bytes.Buffer
	summary := newSimulation("flat", source, false, &trace).run(480)

	if source.Err() != nil {
		t.Fatalf("script error: %v", source.Err())
	}
	if summary.Jumps != 2 || summary.Landings != 2 {
		t.Fatalf("expected 2 jumps and 2 landings, got %+v", summary.Transitions)
	}
	if !summary.Grounded {
		t.Fatalf("expected to end grounded")
	}
	if summary.Transitions[0].Transition != controller.TransitionJumped || summary.Transitions[0].Tick != 60 {
		t.Fatalf("expected the first jump on tick 60, got %+v", summary.Transitions[0])
	}
	if !strings.Contains(trace.String(), "tick 60: jumped") {
		t.Fatalf("expected trace output, got %q", trace.String())
	}
}

func TestSimulateIdleStaysGrounded(t *testing.T) {
	source, err := script.Load("idle.tengo")
	if err != nil {
		t.Fatalf("load script: %v", err)
	}
	summary := newSimulation("steps", source, false, nil).run(120)
	if len(summary.Transitions) != 0 {
		t.Fatalf("expected no transitions without input, got %+v", summary.Transitions)
	}
	if !summary.Grounded || math.Abs(summary.X) > 1e-6 {
		t.Fatalf("expected the player to stay grounded in place, got %+v", summary)
	}
}
