package debug

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func filled(n int) Record {
	var r Record
	r.Init([]float64{-1, 0, 1})
	for k := 0; k < n; k++ {
		r.Update(float64(n-k)/float64(n), []float64{float64(k), float64(2 * k), float64(3 * k)})
	}
	return r
}

func TestRecord(t *testing.T) {
	r := filled(20)
	require.Equal(t, 20, r.Len())
	require.Equal(t, []int{0, 19}, r.profiles(2))
	require.Len(t, r.profiles(8), 8)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	var back Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	require.Equal(t, r.Time, back.Time)
	require.Equal(t, r.Values[3], back.Values[3])
}

func TestChartsAndPlot(t *testing.T) {
	c := Charts{Record: filled(5)}
	var html bytes.Buffer
	require.NoError(t, c.Render(&html))
	require.Contains(t, html.String(), "echarts")

	p := Plot{Record: filled(5)}
	var png bytes.Buffer
	require.NoError(t, p.Render(&png))
	require.Greater(t, png.Len(), 0)

	var empty Charts
	require.ErrorIs(t, empty.Render(&html), ErrEmptyRecord)
	var emptyPlot Plot
	require.ErrorIs(t, emptyPlot.Render(&png), ErrEmptyRecord)
}

func TestChartsHandler(t *testing.T) {
	c := &Charts{Record: filled(5)}
	w := httptest.NewRecorder()
	c.Handler(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	require.Contains(t, w.Body.String(), "echarts")

	// 空记录：500，错误经 Record.Error 写入日志
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	defer slog.SetDefault(prev)

	w = httptest.NewRecorder()
	(&Charts{}).Handler(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, logs.String(), "empty record")
}
