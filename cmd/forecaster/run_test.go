package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PROVIDER", "mock")
	chart := filepath.Join(dir, "chart.png")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{
		"--config", filepath.Join(dir, "missing.yaml"),
		"run", "--ticker", "AMZN", "--history", "40", "--horizon", "5", "--seed", "3",
		"--chart", chart, "--csv", "-",
	})
	require.NoError(t, root.Execute())

	text := out.String()
	require.Contains(t, text, "Geometric Brownian Motion of AMZN over next 5 trading days")
	require.Contains(t, text, "40 closes from mock")
	require.Contains(t, text, "seed:      3")
	require.Contains(t, text, "step,x,t,price")
	csvPart := strings.TrimSpace(text[strings.Index(text, "step,x,t,price"):])
	require.Len(t, strings.Split(csvPart, "\n"), 7)

	img, err := os.ReadFile(chart)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
}

func TestRunCommand_InvalidHorizon(t *testing.T) {
	t.Setenv("DATA_PROVIDER", "mock")
	for _, horizon := range []string{"-1", "10001", "9223372036854775807"} {
		t.Run(horizon, func(t *testing.T) {
			root := newRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "run", "--horizon", horizon})
			require.ErrorContains(t, root.Execute(), "forecastHorizon")
		})
	}
}
