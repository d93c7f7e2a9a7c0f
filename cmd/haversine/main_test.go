package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	stdout, _, err := executeWithInput(t, "", args...)

	return stdout, err
}

func executeWithInput(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(append([]string{"--log-format", "text", "--log-level", "error"}, args...))

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

var averageRE = regexp.MustCompile(`(?m)^(?:Expected|Haversine) average: (\S+)$`)

func average(t *testing.T, out string) string {
	t.Helper()

	m := averageRE.FindStringSubmatch(out)
	require.Len(t, m, 2, out)

	return m[1]
}

func TestGenerateCalculate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		generate  []string
		calculate []string
	}{
		"cluster stream": {},
		"uniform stream": {
			generate: []string{"--uniform"},
		},
		"cluster sonnet": {
			calculate: []string{"--decoder", "sonnet"},
		},
		"uniform sonnet uppercase": {
			generate:  []string{"--uniform"},
			calculate: []string{"--decoder", "SONNET"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "pairs.json")

			args := append([]string{"generate", "--report", "", "--count", "250", "--seed", "7"}, tc.generate...)
			gen, err := execute(t, append(args, path)...)
			require.NoError(t, err)
			assert.Contains(t, gen, "Pair count: 250\n")

			args = append([]string{"calculate", "--report", ""}, tc.calculate...)
			calc, err := execute(t, append(args, path)...)
			require.NoError(t, err)
			assert.Contains(t, calc, "Pair count: 250\n")

			assert.Equal(t, average(t, gen), average(t, calc))
		})
	}
}

func TestGenerateToStdout(t *testing.T) {
	t.Parallel()

	data, report, err := executeWithInput(t, "", "generate", "--count", "3", "--seed", "11", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(data, "["), data)
	assert.True(t, strings.HasSuffix(data, "]"), data)
	assert.NotContains(t, data, "Total time")
	assert.Contains(t, report, "Total time: ")

	for _, decoder := range allDecoders {
		out, _, err := executeWithInput(t, data, "calculate", "--report", "", "--decoder", decoder, "-")
		require.NoError(t, err, decoder)
		assert.Contains(t, out, "Pair count: 3\n", decoder)
	}

	path := filepath.Join(t.TempDir(), "pairs.json")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	out, err := execute(t, "calculate", "--report", "", "--decoder", "sonnet", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Pair count: 3\n")
}

func TestCalculateReport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pairs.json")

	_, err := execute(t, "generate", "--report", "", "-n", "100", path)
	require.NoError(t, err)

	out, err := execute(t, "calculate", "--repeat", "3", path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "Total time: "), out)
	assert.Equal(t, 3, strings.Count(out, "Haversine average: "), out)

	report := filepath.Join(dir, "report.yaml")

	_, err = execute(t, "calculate", "--report", report, "--report-format", "yaml", "--page-faults", path)
	require.NoError(t, err)

	data, err := os.ReadFile(report)
	require.NoError(t, err)

	var got struct {
		TotalMS float64 `yaml:"total_ms"`
		Blocks  []struct {
			Label string `yaml:"label"`
		} `yaml:"blocks"`
	}

	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Positive(t, got.TotalMS)

	for _, b := range got.Blocks {
		assert.NotEmpty(t, b.Label)
	}
}

func TestSchemaCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "schema")
	require.NoError(t, err)

	var got map[string]any

	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "array", got["type"])
}

func TestVersionFlag(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "revision ")
}

func TestCommandErrors(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.json")

	tcs := map[string]struct {
		args []string
		err  error
	}{
		"unknown decoder": {
			args: []string{"calculate", "--decoder", "simd", missing},
			err:  errUnknownDecoder,
		},
		"zero repeat": {
			args: []string{"calculate", "--repeat", "0", missing},
			err:  errInvalidRepeat,
		},
		"negative count": {
			args: []string{"generate", "--report", "", "--count", "-1", missing},
			err:  errInvalidCount,
		},
		"repeat from stdin": {
			args: []string{"calculate", "--repeat", "2", "-"},
			err:  errRepeatStdin,
		},
		"missing input": {
			args: []string{"calculate", "--report", "", missing},
			err:  os.ErrNotExist,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tc.args...)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestCalculateMalformedInput(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"lat0":1}]`), 0o600))

	for _, decoder := range allDecoders {
		_, err := execute(t, "calculate", "--report", "", "--decoder", decoder, path)
		require.Error(t, err, decoder)
	}
}
