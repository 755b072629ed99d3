package main

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fdm/debug"
	"fdm/payoff"
)

func defaults() config {
	return config{
		kind: "put", spot: 36, strike: 40, rate: 0.06, vol: 0.2, maturity: 1,
		nodes: 101, steps: 50, scheme: "Douglas",
	}
}

func TestRunPrintsGreeks(t *testing.T) {
	dir := t.TempDir()
	c := defaults()
	c.chart = filepath.Join(dir, "rollback.html")
	c.plot = filepath.Join(dir, "rollback.png")

	var out bytes.Buffer
	require.NoError(t, run(c, slog.New(slog.NewTextHandler(io.Discard, nil)), &out))
	for _, name := range []string{"value", "delta", "gamma", "theta", "exact"} {
		require.Contains(t, out.String(), name)
	}
	for _, p := range []string{c.chart, c.plot} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		require.Positive(t, info.Size())
	}
}

func TestChartsMux(t *testing.T) {
	rec := &debug.Record{}
	rec.Init([]float64{0, 1, 2})
	rec.Update(1, []float64{1, 2, 3})
	rec.Update(0, []float64{2, 3, 4})

	srv := httptest.NewServer(chartsMux(rec))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "echarts")
}

func TestAnalytic(t *testing.T) {
	c := defaults()
	require.InDelta(t, 3.844, analytic(c, payoff.Put), 1e-3)
	// 平价关系 C - P = S - K·e^{-rT}
	parity := c.spot - c.strike*math.Exp(-c.rate*c.maturity)
	require.InDelta(t, parity, analytic(c, payoff.Call)-analytic(c, payoff.Put), 1e-12)
}

func TestRunRejectsUnknownInputs(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := defaults()
	c.scheme = "leapfrog"
	require.Error(t, run(c, logger, io.Discard))

	c = defaults()
	c.kind = "straddle"
	require.Error(t, run(c, logger, io.Discard))

	c = defaults()
	c.kind, c.american = "call", true
	require.NoError(t, run(c, logger, io.Discard))
}
