package container

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Shreyasms28/InvoiceAnalytics/internal/config"
	httpapi "github.com/Shreyasms28/InvoiceAnalytics/internal/interfaces/http"
	"github.com/Shreyasms28/InvoiceAnalytics/pkg/database"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            3001,
			ShutdownTimeout: time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Database: config.DatabaseConfig{
			Driver:      database.DriverSQLite,
			URL:         filepath.Join(t.TempDir(), "invoices.db"),
			AutoMigrate: true,
		},
		Chat:   config.ChatConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second},
		Logger: config.LoggerConfig{Level: "info"},
	}
}

func startContainer(t *testing.T) *Container {
	t.Helper()
	return startContainerWithLogger(t, zap.NewNop())
}

func startContainerWithLogger(t *testing.T, logger *zap.Logger) *Container {
	t.Helper()
	c, err := NewContainer(testConfig(t), logger)
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(func() {
		if !c.closed.Load() {
			_ = c.Close()
		}
	})
	return c
}

func TestNewContainer_Validation(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(testConfig(t), nil)
	assert.Error(t, err)

	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"
	_, err = NewContainer(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestContainer_Lifecycle(t *testing.T) {
	c := startContainer(t)

	assert.True(t, c.Ready())
	assert.NotNil(t, c.DB())
	assert.NotNil(t, c.Repositories())
	assert.NotNil(t, c.Services())
	assert.NotNil(t, c.Server())
	assert.Error(t, c.Start(context.Background()), "second start")

	health := c.Health(context.Background())
	assert.True(t, health.Overall)
	assert.True(t, health.Components["database"].Healthy)

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close(), "second close")
	assert.Error(t, c.Start(context.Background()), "start after close")

	health = c.Health(context.Background())
	assert.False(t, health.Overall)
}

func TestContainer_Degraded(t *testing.T) {
	c := startContainer(t)
	assert.Empty(t, c.Degraded(context.Background()))

	require.NoError(t, c.Close())
	assert.Equal(t, map[string]string{"database": "not initialized"}, c.Degraded(context.Background()))
}

func TestContainer_WatchHealth(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := startContainerWithLogger(t, zap.New(core))
	require.NoError(t, c.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.WatchHealth(ctx, 5*time.Millisecond) }()

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("Component degraded").Len() > 0
	}, 2*time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("health watcher did not stop")
	}

	degraded := logs.FilterMessage("Component degraded").All()
	require.Len(t, degraded, 1, "an unchanged degradation is logged once")
	assert.Equal(t, "database", degraded[0].ContextMap()["component"])
	assert.Equal(t, 1, logs.FilterMessage("Health watcher stopped").Len())

	assert.Error(t, c.WatchHealth(context.Background(), 0))
}

func TestContainer_ReportHealthLogsRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := startContainerWithLogger(t, zap.New(core))

	current := c.reportHealth(context.Background(), map[string]string{"database": "ping failed"})
	assert.Empty(t, current)

	recovered := logs.FilterMessage("Component recovered").All()
	require.Len(t, recovered, 1)
	assert.Equal(t, "database", recovered[0].ContextMap()["component"])
}

func TestContainer_HealthEndpointKeepsContractWhenDegraded(t *testing.T) {
	c := startContainer(t)
	router := c.Server().Router()
	require.NoError(t, c.Close())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
	assert.Len(t, body, 2)
}

func TestContainer_IngestAndServe(t *testing.T) {
	c := startContainer(t)

	dataset := `{"invoices":[
	  {"invoiceNumber":"INV-1","vendor":{"name":"Acme"},"customer":{"name":"Northwind"},
	   "issueDate":"2024-02-01","dueDate":"2024-03-01","status":"paid","subtotal":100,"tax":10,
	   "lineItems":[{"description":"Paper","category":"Office","amount":110}],
	   "payments":[{"amount":110,"paymentDate":"2024-02-10","method":"bank_transfer"}]},
	  {"invoiceNumber":"INV-2","vendor":{"name":"Globex"},"customer":{"name":"Northwind"},
	   "issueDate":"2024-02-05","dueDate":"2024-03-05","total":50,
	   "lineItems":[{"description":"Support","amount":50}]}
	]}`

	result, err := c.Services().Ingest.Load(context.Background(), strings.NewReader(dataset))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Invoices)

	// Reloading the same dataset must not duplicate anything
	_, err = c.Services().Ingest.Load(context.Background(), strings.NewReader(dataset))
	require.NoError(t, err)

	router := c.Server().Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/invoices?q=acme", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list httpapi.InvoiceListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Pagination.Total)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "INV-1", list.Data[0].InvoiceNumber)
	assert.Equal(t, "Acme", list.Data[0].Vendor.Name)
	assert.Equal(t, 110.0, list.Data[0].Total)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/category-spend", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var chart httpapi.ChartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chart))
	assert.Equal(t, []string{"Office", "Uncategorized"}, chart.Labels)
	assert.Equal(t, []float64{110, 50}, chart.Data)
}
