package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ilocksmithindiana/lead-service/internal/config"
)

// SiteConfigHandler serves the public configuration values the client-side
// form needs. Secrets never appear here.
type SiteConfigHandler struct {
	cfg *config.Config
}

func NewSiteConfigHandler(cfg *config.Config) *SiteConfigHandler {
	return &SiteConfigHandler{cfg: cfg}
}

// Get handles GET /api/config.
func (h *SiteConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"recaptcha_site_key": h.cfg.RecaptchaSiteKey,
		"website_url":        h.cfg.WebsiteURL,
		"thank_you_url":      h.cfg.ThankYouURL,
		"business_phone":     h.cfg.BusinessPhone,
	})
}
