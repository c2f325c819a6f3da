package main

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"testing"

	"goadf/internal/testkit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"ADF_CONFIG_FILE", "ADF_REGRESSION", "ADF_LAG_METHOD", "ADF_MAX_LAGS",
		"ADF_SIGNIFICANCE", "ADF_MISSING_POLICY", "ADF_MAX_CONCURRENT", "ADF_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func joinValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func run(t *testing.T, args ...string) (map[string]interface{}, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--log-level=error"}, args...))
	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded), out.String())
	return decoded, nil
}

func TestTestCmd_LinearSeries(t *testing.T) {
	clearEnv(t)

	out, err := run(t, "test", "--values", joinValues(testkit.Linear(0, 50)), "--regression", "c")
	require.NoError(t, err)

	result := out["result"].(map[string]interface{})
	assert.Equal(t, false, result["is_stationary"])
	assert.Equal(t, "c", result["regression_type"])
	assert.Equal(t, "aic", result["lag_method"])
	assert.Equal(t, "constant", result["regression_description"])
	assert.Contains(t, result["critical_values"], "5%")
}

func TestTestCmd_SummaryAndNegativeValues(t *testing.T) {
	clearEnv(t)
	cfg := testkit.DefaultSeriesConfig()
	cfg.Length = 60
	values := testkit.NewSeriesGenerator(cfg).WhiteNoise()
	values[0] = -math.Abs(values[0]) - 1

	out, err := run(t, "test", "--values", joinValues(values), "--method", "fixed", "--max-lags", "2", "--summary")
	require.NoError(t, err)

	result := out["result"].(map[string]interface{})
	assert.Equal(t, float64(2), result["lags_used"])
	assert.Equal(t, "fixed", result["lag_method"])
	assert.Equal(t, "fixed lag order", result["lags_method_description"])
	summary := out["summary"].(map[string]interface{})
	assert.Equal(t, float64(60), summary["n"])
}

func TestTestCmd_RejectsPositionalValues(t *testing.T) {
	clearEnv(t)

	for _, args := range [][]string{
		{"test", "1", "2", "3"},
		{"test", "--values", "1,2,3", "--", "4"},
		{"test", "-1.5", "2"},
	} {
		_, err := run(t, args...)
		require.Error(t, err, args)

		var buf bytes.Buffer
		writeFailure(&buf, err)
		assert.Contains(t, buf.String(), "InvalidConfigError", args)
	}
}

func TestRootCmd_FlagErrorsAreConfigErrors(t *testing.T) {
	clearEnv(t)

	_, err := run(t, "test", "--values", "1,2,3", "--max-lags", "many")
	require.Error(t, err)
	var buf bytes.Buffer
	writeFailure(&buf, err)
	assert.Contains(t, buf.String(), "InvalidConfigError")

	_, err = run(t, "--log-level=loud", "critical-values")
	require.Error(t, err)
	buf.Reset()
	writeFailure(&buf, err)
	assert.Contains(t, buf.String(), "InvalidConfigError")

	out, err := run(t, "--log-level=warning", "critical-values", "--regression", "n")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestTestCmd_Failures(t *testing.T) {
	clearEnv(t)

	_, err := run(t, "test", "--values", "1,2,3")
	require.Error(t, err)

	var buf bytes.Buffer
	writeFailure(&buf, err)
	var failure map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &failure))
	assert.Equal(t, "InsufficientDataError", failure["kind"])
	assert.NotEmpty(t, failure["message"])

	_, err = run(t, "test", "--values", "1,2,3", "--significance", "0.2")
	require.Error(t, err)
	buf.Reset()
	writeFailure(&buf, err)
	assert.Contains(t, buf.String(), "InvalidConfigError")
}

func TestBatchCmd(t *testing.T) {
	clearEnv(t)
	cfg := testkit.DefaultSeriesConfig()
	cfg.Length = 80
	walk := testkit.NewSeriesGenerator(cfg).RandomWalk()

	out, err := run(t, "batch",
		"--series", "walk="+joinValues(walk),
		"--series", "tiny=1,2,3",
		"--regression", "ct")
	require.NoError(t, err)

	_, err = uuid.Parse(out["batch_id"].(string))
	assert.NoError(t, err)
	assert.Equal(t, float64(1), out["succeeded"])
	assert.Equal(t, float64(1), out["failed"])

	outcomes := out["outcomes"].([]interface{})
	require.Len(t, outcomes, 2)
	tiny := outcomes[0].(map[string]interface{})
	assert.Equal(t, "tiny", tiny["name"])
	assert.Equal(t, "InsufficientDataError", tiny["error"].(map[string]interface{})["kind"])
}

func TestBatchCmd_RejectsMalformedSeries(t *testing.T) {
	clearEnv(t)

	_, err := run(t, "batch", "--series", "novalues")
	assert.Error(t, err)

	_, err = run(t, "batch", "--series", "a=1,2", "--series", "a=3,4")
	assert.Error(t, err)

	_, err = run(t, "batch")
	assert.Error(t, err)
}

func TestCriticalValuesCmd(t *testing.T) {
	clearEnv(t)

	out, err := run(t, "critical-values", "--regression", "c")
	require.NoError(t, err)
	require.Len(t, out, 1)

	cv := out["c"].(map[string]interface{})
	assert.InDelta(t, -2.86, cv["5%"].(float64), 0.01)

	out, err = run(t, "critical-values")
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestParseValues(t *testing.T) {
	values, err := parseValues("1, 2.5\t-3e2,NaN")
	require.NoError(t, err)
	require.Len(t, values, 4)
	assert.Equal(t, -300.0, values[2])
	assert.True(t, math.IsNaN(values[3]))

	_, err = parseValues("1,two,3")
	assert.Error(t, err)

	_, err = parseValues(" , ")
	assert.Error(t, err)
}
