package calculator

import (
	"encoding/json"
	"log/slog"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gorilla/mux"
)

const maxRequestBytes = 64 << 10

// NewRouter returns the calculation engine routes: POST /calculate and GET /health.
func NewRouter(pricePerKWh float64, logger *slog.Logger) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/calculate", calculateHandler(pricePerKWh, logger)).Methods(http.MethodPost)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "solar-simulator",
	})
}

func calculateHandler(pricePerKWh float64, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
			sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
			return
		}

		resp, err := Calculate(req, pricePerKWh)
		if err != nil {
			logger.Debug("calculation rejected", "error", err, "roof_size_m2", req.RoofSizeM2)
			sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		logger.Debug("calculation complete",
			"num_panels", resp.NumPanels,
			"estimated_output_kwh", resp.EstimatedOutputKWh,
		)
		sharedobs.WriteJSON(w, http.StatusOK, resp)
	}
}
