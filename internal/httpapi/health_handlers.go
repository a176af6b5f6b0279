package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"apprenticetrack-engine/internal/store"
)

type HealthHandler struct{}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok":     true,
		"period": store.PeriodLabel(time.Now()),
	})
}
