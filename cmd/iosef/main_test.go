package main

import (
	"reflect"
	"testing"
)

// resetFlags clears every package-level flag variable so tests don't leak
// state into one another.
func resetFlags() {
	deviceFlag, xFlag, yFlag = "", 0, 0
	xsFlag, ysFlag, xeFlag, yeFlag = 0, 0, 0, 0
	roleFlag, nameFlag, identFlag, textFlag = "", "", "", ""
	depthFlag = 0
	timeoutFlag = 0
	pathFlag, bundleIDFlag, outputPathFlag = "", "", ""
	terminateFlag = false
	predicateFlag = ""
	durationFlag, lastFlag = 0, 0
	jsonArgsFlag = ""
}

func TestBuildArgsIncludesDeviceAndTimeoutWhenSet(t *testing.T) {
	resetFlags()
	defer resetFlags()
	deviceFlag = "iPhone 15"
	timeoutFlag = 5

	args, err := buildArgs(nil)
	if err != nil {
		t.Fatalf("buildArgs() error = %v", err)
	}
	if args["device"] != "iPhone 15" {
		t.Errorf("args[device] = %v, want %q", args["device"], "iPhone 15")
	}
	if args["timeout"] != 5.0 {
		t.Errorf("args[timeout] = %v, want 5.0", args["timeout"])
	}
}

func TestBuildArgsOnlyIncludesRelevantFlags(t *testing.T) {
	resetFlags()
	defer resetFlags()
	xFlag, yFlag = 10, 20
	roleFlag = "AXButton"

	args, err := buildArgs([]string{"x", "y"})
	if err != nil {
		t.Fatalf("buildArgs() error = %v", err)
	}
	if _, present := args["role"]; present {
		t.Errorf("args contains 'role' despite it not being in relevantFlags: %v", args)
	}
	if args["x"] != 10.0 || args["y"] != 20.0 {
		t.Errorf("args = %v, want x=10 y=20", args)
	}
}

func TestBuildArgsJSONOverlayWinsOverFlags(t *testing.T) {
	resetFlags()
	defer resetFlags()
	textFlag = "hello"
	jsonArgsFlag = `{"text": "overridden", "extra": "value"}`

	args, err := buildArgs([]string{"text"})
	if err != nil {
		t.Fatalf("buildArgs() error = %v", err)
	}
	if args["text"] != "overridden" {
		t.Errorf("args[text] = %v, want %q (json overlay should win)", args["text"], "overridden")
	}
	if args["extra"] != "value" {
		t.Errorf("args[extra] = %v, want %q", args["extra"], "value")
	}
}

func TestBuildArgsInvalidJSONReturnsError(t *testing.T) {
	resetFlags()
	defer resetFlags()
	jsonArgsFlag = `{not valid json`

	if _, err := buildArgs(nil); err == nil {
		t.Errorf("buildArgs() with malformed --json expected an error")
	}
}

func TestWithFlagsReturnsArgsVerbatim(t *testing.T) {
	got := withFlags("x", "y", "role")
	want := []string{"x", "y", "role"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("withFlags() = %v, want %v", got, want)
	}
}

func TestBuildArgsOmitsEmptyOptionalStrings(t *testing.T) {
	resetFlags()
	defer resetFlags()

	args, err := buildArgs([]string{"role", "name", "identifier", "output_path", "predicate"})
	if err != nil {
		t.Fatalf("buildArgs() error = %v", err)
	}
	for _, key := range []string{"role", "name", "identifier", "output_path", "predicate"} {
		if _, present := args[key]; present {
			t.Errorf("args[%q] present despite empty flag value: %v", key, args)
		}
	}
}
