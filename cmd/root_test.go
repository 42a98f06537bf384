package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args inside a fresh working directory
// and returns stdout.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores every flag of cmd and its children to its default so
// that tests do not leak values into each other.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"forecast", "whatif", "keywords", "profiles", "categories", "scenario", "runs", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "seo-forecast", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestForecastCommand_Flags(t *testing.T) {
	for _, name := range []string{"keywords", "scenario", "format", "output", "save", "name", "category", "months", "conversion-rate", "aov", "cost", "currency", "ctr-profile", "confidence", "featured-snippet", "owns-snippet", "faq", "owns-faq"} {
		assert.NotNil(t, forecastCmd.Flags().Lookup(name), "forecast should have --%s", name)
	}
	assert.Equal(t, "table", forecastCmd.Flags().Lookup("format").DefValue)
}

func TestWhatIfCommand_Flags(t *testing.T) {
	for _, name := range []string{"variable", "min", "max", "steps", "values", "format"} {
		assert.NotNil(t, whatifCmd.Flags().Lookup(name), "whatif should have --%s", name)
	}
	assert.Equal(t, "5", whatifCmd.Flags().Lookup("steps").DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestRunsCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range runsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "show", "delete"} {
		assert.True(t, names[name], "runs should have subcommand %q", name)
	}
}

func TestProfilesCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "profiles")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[0], "RANK")
	assert.Contains(t, lines[0], "ecommerce")
	assert.Contains(t, lines[1], "25.0%")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "21+"))
}

func TestCategoriesCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "Jan")
	assert.Contains(t, out, "christmas")
	assert.Contains(t, out, "2.5")
}
