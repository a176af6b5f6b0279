package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"apprenticetrack-engine/internal/config"
	"apprenticetrack-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setWebhookReq struct {
	Channel string `json:"channel"`
	URL     string `json:"url"`
}

func (h SecretsHandler) SetWebhook(w http.ResponseWriter, r *http.Request) {
	var req setWebhookReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	known := false
	for _, ch := range cfg.Notify.Channels {
		if strings.EqualFold(ch.Name, req.Channel) {
			known = true
			break
		}
	}
	if !known {
		http.Error(w, "unknown channel: "+req.Channel, http.StatusBadRequest)
		return
	}

	if err := secrets.SetChannelWebhook(req.Channel, req.URL); err != nil {
		http.Error(w, "failed to store webhook: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
