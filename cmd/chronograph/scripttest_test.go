package main

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"rsc.io/script"
	"rsc.io/script/scripttest"

	"github.com/chronograph-db/chronograph/internal/facade"
	"github.com/chronograph-db/chronograph/internal/storage/memory"
)

// idLocatorRE pulls the "id@version" locator out of a printEntity
// confirmation line (e.g. "created node: deadbeef@1"), so a script can
// capture an id right after creating it.
var idLocatorRE = regexp.MustCompile(`([^\s:]+)@\d+`)

// newChronographEngine builds the rsc.io/script engine (the same
// harness cmd/go's own script tests are built on) that drives the CLI
// in-process. The command seeds app with a fresh in-memory backend
// whenever app is nil, so PersistentPreRunE's nil-guard (see main.go)
// leaves it alone: every line within one script file shares the same
// app, so state persists across chronograph invocations in that file,
// and the caller resets app to nil between files to isolate them.
func newChronographEngine() *script.Engine {
	engine := script.NewEngine()
	engine.Cmds["chronograph"] = script.Command(
		script.CmdUsage{
			Summary: "run the chronograph CLI in-process",
			Args:    "[args...]",
		},
		func(s *script.State, args ...string) (script.WaitFunc, error) {
			if app == nil {
				app = facade.New(memory.NewBackend(), nil)
			}
			jsonOutput = false

			var out, errOut bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetErr(&errOut)
			rootCmd.SetArgs(args)
			runErr := rootCmd.Execute()

			if m := idLocatorRE.FindStringSubmatch(out.String()); m != nil {
				_ = s.Setenv("LAST_ID", m[1])
			}

			return func(*script.State) (stdout, stderr string, err error) {
				return out.String(), errOut.String(), runErr
			}, nil
		},
	)
	return engine
}

// TestScripts drives the CLI end-to-end through txtar scripts under
// testdata/script. Each file runs against its own fresh in-memory
// backend (app is reset to nil before the file starts), but every
// chronograph invocation within that one file shares the backend the
// first invocation lazily creates, proving the versioned store
// persists state across invocations within a script.
func TestScripts(t *testing.T) {
	files, err := filepath.Glob("testdata/script/*.txt")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, file := range files {
		file := file
		t.Run(filepath.Base(file), func(t *testing.T) {
			app = nil
			scripttest.Test(t, ctx, newChronographEngine(), nil, file)
		})
	}
}
