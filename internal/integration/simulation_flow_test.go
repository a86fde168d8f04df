//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/solar-simulation-service/internal/adapter/calcengine"
	"github.com/couchcryptid/solar-simulation-service/internal/adapter/catalogcache"
	httpadapter "github.com/couchcryptid/solar-simulation-service/internal/adapter/http"
	"github.com/couchcryptid/solar-simulation-service/internal/adapter/kafka"
	"github.com/couchcryptid/solar-simulation-service/internal/adapter/postgres"
	"github.com/couchcryptid/solar-simulation-service/internal/calculator"
	"github.com/couchcryptid/solar-simulation-service/internal/catalog"
	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	"github.com/couchcryptid/solar-simulation-service/internal/observability"
	"github.com/couchcryptid/solar-simulation-service/internal/pipeline"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const testTopic = "test-simulations"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("solar-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func startPostgres(ctx context.Context, t *testing.T) *postgres.Store {
	t.Helper()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("solar"),
		tcpostgres.WithUsername("solar"),
		tcpostgres.WithPassword("solar"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := postgres.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(ctx))
	_, err = catalog.Seed(ctx, store, discardLogger())
	require.NoError(t, err)
	return store
}

// TestSimulationFlow drives the full stack over HTTP: Postgres catalog behind
// the cache, remote estimation against the calculator, and Kafka events.
func TestSimulationFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)
	store := startPostgres(ctx, t)

	calc := httptest.NewServer(calculator.NewRouter(domain.DefaultElectricityPricePerKWh, discardLogger()))
	t.Cleanup(calc.Close)

	metrics := observability.NewMetricsForTesting()
	writer := kafka.NewWriter([]string{broker}, testTopic, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	svc := pipeline.New(
		catalogcache.New(store, 16, time.Minute, metrics),
		calcengine.NewClient(calc.URL, 5*time.Second, discardLogger(), metrics),
		"remote",
		writer,
		discardLogger(),
		metrics,
	)
	api := httptest.NewServer(httpadapter.NewServer(":0", svc, []string{"*"}, discardLogger()))
	t.Cleanup(api.Close)

	// Catalog queries.
	var panels []domain.PanelType
	getJSON(t, api.URL+"/api/panel-types", &panels)
	assert.Len(t, panels, 4)

	var locs []domain.Location
	getJSON(t, api.URL+"/api/locations", &locs)
	assert.Len(t, locs, 4)

	// Create.
	la := catalog.LocationID("Los Angeles", "USA")
	maxeon := catalog.PanelTypeID("SunPower Maxeon 6")
	body := fmt.Sprintf(`{"locationId":%q,"panelTypeId":%q,"roofSizeM2":50}`, la, maxeon)
	resp, err := http.Post(api.URL+"/api/simulations", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.Simulation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, la, created.Location.ID)
	assert.InDelta(t, 20950.87, created.EstimatedOutputKWh, 1e-6)

	// A second create on a warm connection returns without waiting on
	// producer batching.
	start := time.Now()
	resp3, err := http.Post(api.URL+"/api/simulations", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp3.Body.Close()
	require.Equal(t, http.StatusCreated, resp3.StatusCode)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	// Degenerate input is rejected by the calculator and nothing is stored.
	tiny := fmt.Sprintf(`{"locationId":%q,"panelTypeId":%q,"roofSizeM2":1.5}`, la, maxeon)
	resp2, err := http.Post(api.URL+"/api/simulations", "application/json", strings.NewReader(tiny))
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp2.StatusCode)

	var sims []domain.Simulation
	getJSON(t, api.URL+"/api/simulations", &sims)
	require.Len(t, sims, 2)
	assert.Equal(t, created.ID, sims[0].ID)
	assert.True(t, created.CreatedAt.Equal(sims[0].CreatedAt), "create response and list agree on created_at")
	assert.Equal(t, "SunPower Maxeon 6", sims[0].PanelType.Name)

	// The created event reached Kafka.
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read simulation event")

	assert.Equal(t, created.ID.String(), string(msg.Key))
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, la.String(), headers["location_id"])
	assert.Equal(t, created.CreatedAt.Format(time.RFC3339), headers["created_at"])

	var event domain.Simulation
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, created.ID, event.ID)
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test server URL
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
