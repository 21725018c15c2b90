package debug

import (
	"os"
	"testing"
)

func TestSetVerboseTogglesEnabled(t *testing.T) {
	prevEnv := os.Getenv("CHRONOGRAPH_DEBUG")
	prevEnabled := enabled
	os.Setenv("CHRONOGRAPH_DEBUG", "")
	enabled = false
	defer func() {
		os.Setenv("CHRONOGRAPH_DEBUG", prevEnv)
		enabled = prevEnabled
		SetVerbose(false)
	}()

	if Enabled() {
		t.Fatal("Enabled() = true before SetVerbose(true)")
	}
	SetVerbose(true)
	if !Enabled() {
		t.Fatal("Enabled() = false after SetVerbose(true)")
	}
	SetVerbose(false)
	if Enabled() {
		t.Fatal("Enabled() = true after SetVerbose(false)")
	}
}

func TestQuietMode(t *testing.T) {
	defer SetQuiet(false)
	SetQuiet(true)
	if !IsQuiet() {
		t.Fatal("IsQuiet() = false after SetQuiet(true)")
	}
	SetQuiet(false)
	if IsQuiet() {
		t.Fatal("IsQuiet() = true after SetQuiet(false)")
	}
}
