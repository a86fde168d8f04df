package calcengine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	"github.com/couchcryptid/solar-simulation-service/internal/observability"
)

// maxResponseBytes caps how much of a calculator response is read.
const maxResponseBytes = 1 << 20

// Client implements domain.Estimator by delegating to the remote calculation engine.
type Client struct {
	httpClient *http.Client
	baseURL    string
	schema     *responseSchema
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a calculation engine client. baseURL is the service root;
// requests go to baseURL + "/calculate".
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		schema:  mustCompileResponseSchema(),
		logger:  logger,
		metrics: metrics,
	}
}

// Estimate posts the resolved inputs to the calculator and returns the three
// contract fields from its response.
func (c *Client) Estimate(ctx context.Context, loc domain.Location, panel domain.PanelType, roofSizeM2 float64) (domain.SimulationResult, error) {
	body, err := json.Marshal(newRequest(loc, panel, roofSizeM2))
	if err != nil {
		return domain.SimulationResult{}, &domain.RemoteCalculationError{Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/calculate", bytes.NewReader(body))
	if err != nil {
		return domain.SimulationResult{}, &domain.RemoteCalculationError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RemoteAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.RemoteRequests.WithLabelValues("transport_error").Inc()
		c.logger.Warn("calculator request failed", "url", req.URL.String(), "error", err)
		return domain.SimulationResult{}, &domain.RemoteCalculationError{Err: fmt.Errorf("calculate request: %w", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.RemoteRequests.WithLabelValues("transport_error").Inc()
		return domain.SimulationResult{}, &domain.RemoteCalculationError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RemoteRequests.WithLabelValues("http_error").Inc()
		c.logger.Warn("calculator returned error status", "status", resp.StatusCode, "body", string(raw))
		return domain.SimulationResult{}, &domain.RemoteCalculationError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	result, err := c.decode(raw)
	if err != nil {
		c.metrics.RemoteRequests.WithLabelValues("invalid_response").Inc()
		c.logger.Warn("calculator returned invalid response", "error", err, "body", string(raw))
		return domain.SimulationResult{}, &domain.RemoteCalculationError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			Err:        err,
		}
	}

	c.metrics.RemoteRequests.WithLabelValues("success").Inc()
	return result, nil
}

func (c *Client) decode(raw []byte) (domain.SimulationResult, error) {
	if err := c.schema.validate(raw); err != nil {
		return domain.SimulationResult{}, err
	}

	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		return domain.SimulationResult{}, fmt.Errorf("decode response: %w", err)
	}

	result := domain.SimulationResult{
		EstimatedOutputKWh: r.EstimatedOutputKWh,
		EstimatedCostUSD:   r.EstimatedCostUSD,
		EstimatedROIYears:  r.EstimatedROIYears,
	}
	if err := result.Check(); err != nil {
		return domain.SimulationResult{}, err
	}
	return result, nil
}

// Calculator wire types.

type request struct {
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	AvgSunHoursPerDay float64 `json:"avg_sun_hours_per_day"`
	RoofSizeM2        float64 `json:"roof_size_m2"`
	PanelEfficiency   float64 `json:"panel_efficiency"`
	PanelWattage      float64 `json:"panel_wattage"`
	PricePerWatt      float64 `json:"price_per_watt"`
}

func newRequest(loc domain.Location, panel domain.PanelType, roofSizeM2 float64) request {
	return request{
		Latitude:          loc.Latitude,
		Longitude:         loc.Longitude,
		AvgSunHoursPerDay: loc.AvgSunHoursPerDay,
		RoofSizeM2:        roofSizeM2,
		PanelEfficiency:   panel.Efficiency,
		PanelWattage:      float64(panel.Wattage),
		PricePerWatt:      panel.PricePerWatt,
	}
}

type response struct {
	EstimatedOutputKWh float64 `json:"estimated_output_kwh"`
	EstimatedCostUSD   float64 `json:"estimated_cost_usd"`
	EstimatedROIYears  float64 `json:"estimated_roi_years"`
}
