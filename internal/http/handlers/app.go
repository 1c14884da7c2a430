package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"headshots/internal/domain"
	"headshots/internal/webhook"
)

// Trainer submits a subject-model training prediction to the provider.
type Trainer interface {
	StartTraining(ctx context.Context, inputImagesURL string) (string, error)
}

// App bundles the collaborators the HTTP handlers depend on.
type App struct {
	Logger     zerolog.Logger
	Orders     domain.OrderRepository
	Jobs       domain.JobRepository
	Assets     domain.AssetRepository
	Training   domain.TrainingJobRepository
	Reconciler *webhook.Reconciler
	Trainer    Trainer
}

// NewApp constructs the handler container.
func NewApp(
	logger zerolog.Logger,
	orders domain.OrderRepository,
	jobs domain.JobRepository,
	assets domain.AssetRepository,
	training domain.TrainingJobRepository,
	reconciler *webhook.Reconciler,
	trainer Trainer,
) *App {
	return &App{
		Logger:     logger,
		Orders:     orders,
		Jobs:       jobs,
		Assets:     assets,
		Training:   training,
		Reconciler: reconciler,
		Trainer:    trainer,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}
