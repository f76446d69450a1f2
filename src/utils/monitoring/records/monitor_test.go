package monitor_records

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T, monitor *Monitor) map[string]float64 {
	registry := prometheus.NewRegistry()
	registry.MustRegister(monitor.GetPrometheusCollector())

	families, err := registry.Gather()
	require.Nil(t, err)

	out := make(map[string]float64)
	for _, family := range families {
		metric := family.GetMetric()[0]
		if metric.GetCounter() != nil {
			out[family.GetName()] = metric.GetCounter().GetValue()
		} else {
			out[family.GetName()] = metric.GetGauge().GetValue()
		}
	}
	return out
}

func TestCollectorExposesCounters(t *testing.T) {
	monitor := NewMonitor()
	report := monitor.GetReport().Records

	report.State.SubmitsSucceeded.Add(2)
	report.State.RepositoryRecords.Store(7)
	report.Errors.VerifyFailures.Inc()

	require.Equal(t, 18, testutil.CollectAndCount(monitor.GetPrometheusCollector()))

	values := gather(t, monitor)
	require.Equal(t, 2.0, values["submits_succeeded"])
	require.Equal(t, 7.0, values["repository_records"])
	require.Equal(t, 1.0, values["verify_failures"])
	require.Equal(t, 0.0, values["journal_failures"])
}

func TestOnGetState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	monitor := NewMonitor()
	monitor.GetReport().Records.State.VerifiesSucceeded.Inc()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	monitor.OnGetState(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Records struct {
			State map[string]int64 `json:"state"`
		} `json:"records"`
	}
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, int64(1), body.Records.State["verifies_succeeded"])
}

func TestOnGetHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	NewMonitor().OnGetHealth(c)
	require.Equal(t, http.StatusOK, w.Code)
}
