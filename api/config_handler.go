package api

import (
	"net/http"

	"github.com/seenimoa/minicharts/internal/config"
)

// ConfigResponse is the JSON envelope returned by GET /api/v1/config.
type ConfigResponse struct {
	Config  config.Config         `json:"config"`
	Secrets []config.SecretStatus `json:"secrets"`
}

// handleGetConfig returns the running configuration with credentials
// blanked out. Their status is reported separately.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:  redact(s.cfg),
			Secrets: config.CheckSecrets(s.cfg),
		},
	})
}

// handleGetConfigSecrets returns the status of every credential.
func (s *Server) handleGetConfigSecrets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    config.CheckSecrets(s.cfg),
	})
}

// redact returns a copy of cfg without credential values.
func redact(cfg *config.Config) config.Config {
	out := *cfg
	out.API.CORSOrigins = append([]string(nil), cfg.API.CORSOrigins...)
	out.API.AuthToken = ""
	out.Sources.StatusToken = ""
	return out
}
