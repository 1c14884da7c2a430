package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"headshots/internal/webhook"
)

// ProviderWebhook accepts one provider job-status event and hands it to the
// reconciler. Every inbound delivery is answered: a recognized or ignorable
// event gets a received acknowledgment, and anything that fails processing
// gets a distinguishing failure response so the provider may redeliver.
// Nothing here is allowed to panic through to the transport.
func (a *App) ProviderWebhook(w http.ResponseWriter, r *http.Request) {
	var ev webhook.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		a.Logger.Error().Err(err).Msg("webhook: malformed payload")
		a.error(w, http.StatusInternalServerError, "processing_failed", "webhook processing failed")
		return
	}

	a.Logger.Info().
		Str("job_id", ev.ID).
		Str("status", string(ev.Status)).
		Bool("has_output", len(ev.Output) > 0).
		Msg("webhook: event received")

	if err := a.Reconciler.Handle(r.Context(), ev); err != nil {
		a.Logger.Error().Err(err).Str("job_id", ev.ID).Msg("webhook: processing failed")
		a.error(w, http.StatusInternalServerError, "processing_failed", "webhook processing failed")
		return
	}

	a.json(w, http.StatusOK, map[string]bool{"received": true})
}

// WebhookHealth is the provider-facing liveness probe.
func (a *App) WebhookHealth(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   "provider-webhook",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
