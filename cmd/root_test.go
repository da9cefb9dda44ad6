package cmd

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

// execute runs the CLI and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgPath, logFile, logLevel, colorMode, commandLine = ".", "", "", "", ""
	reset := func(f *pflag.Flag) { f.Changed = false }
	rootCmd.PersistentFlags().VisitAll(reset)
	rootCmd.Flags().VisitAll(reset)

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestBuiltinsCmd(t *testing.T) {
	out, err := execute(t, "builtins")
	require.NoError(t, err)

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)
	g.Assert(t, "builtins", []byte(out))
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "init", "--config", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml")+"\n", out)
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))

	_, err = execute(t, "init", "--config", dir)
	assert.Error(t, err, "init must not overwrite")
}

func TestRootCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	t.Run("single line", func(t *testing.T) {
		cwd, err := os.Getwd()
		require.NoError(t, err)

		out, err := execute(t, "-c", "here")
		require.NoError(t, err)
		assert.Equal(t, cwd+"\n", out)
	})

	t.Run("exit", func(t *testing.T) {
		out, err := execute(t, "-c", "exit")
		require.NoError(t, err)
		assert.Equal(t, "\n", out)
	})

	t.Run("end of input", func(t *testing.T) {
		out, err := execute(t, "--color", "never")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out, "]: \n"), "got %q", out)
	})

	t.Run("missing config dir", func(t *testing.T) {
		_, err := execute(t, "--config", filepath.Join(t.TempDir(), "nope"), "-c", "here")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("invalid color", func(t *testing.T) {
		_, err := execute(t, "--color", "rainbow", "-c", "here")
		assert.Error(t, err)
	})
}

func TestEventsReportCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	eventLog := filepath.Join(t.TempDir(), "events.log")

	_, err := execute(t, "--log-file", eventLog, "-c", "here")
	require.NoError(t, err)
	_, err = execute(t, "--log-file", eventLog, "-c", "mdir")
	require.NoError(t, err)

	out, err := execute(t, "events", "report", "--log-file", eventLog)
	require.NoError(t, err)

	var report struct {
		Sessions   int `json:"sessions"`
		RunCommand struct {
			CommandNames map[string]int `json:"command_names"`
		} `json:"run_command_report"`
		InvalidInvocation struct {
			Invocations []struct {
				Count int               `json:"count"`
				Event map[string]string `json:"event"`
			} `json:"invocations"`
		} `json:"invalid_invocation_report"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))

	assert.Equal(t, 2, report.Sessions)
	assert.Equal(t, map[string]int{"here": 1, "mdir": 1}, report.RunCommand.CommandNames)
	require.Len(t, report.InvalidInvocation.Invocations, 1)
	assert.Equal(t, "mdir", report.InvalidInvocation.Invocations[0].Event["command"])

	t.Run("no log", func(t *testing.T) {
		_, err := execute(t, "events", "report")
		assert.Error(t, err)
	})
}
