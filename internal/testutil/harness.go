package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/paragrid/internal/app"
	"github.com/specialistvlad/paragrid/internal/registry"
	"github.com/stretchr/testify/require"
)

// HarnessResult holds the outcomes of an application run.
type HarnessResult struct {
	LogOutput string
	Output    string
	Err       error
	App       *app.App
}

// RunApp writes files into a temporary directory, points a debug-level App at
// it and runs it to completion. configure may adjust the config before the
// App is built; modules replace the core object types when given.
func RunApp(t *testing.T, files map[string]string, configure func(*app.Config), modules ...registry.Module) *HarnessResult {
	t.Helper()
	return RunAppWithContext(context.Background(), t, files, configure, modules...)
}

// RunAppWithContext is RunApp with a caller-provided context, for runs that
// serve until cancelled.
func RunAppWithContext(ctx context.Context, t *testing.T, files map[string]string, configure func(*app.Config), modules ...registry.Module) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := &app.Config{
		ModelPaths: []string{dir},
		LogLevel:   "debug",
		LogFormat:  "text",
	}
	if configure != nil {
		configure(cfg)
	}

	logBuffer := &SafeBuffer{}
	var out bytes.Buffer

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(&out, logBuffer, cfg, modules...)
	}()
	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(ctx)

	if os.Getenv(LogsEnv) == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Output:    out.String(),
		Err:       runErr,
		App:       testApp,
	}
}
