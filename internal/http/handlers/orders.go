package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"headshots/internal/domain"
	"headshots/internal/middleware"
	"headshots/internal/notify"
)

type createOrderRequest struct {
	Email string `json:"email"`
	Tier  string `json:"tier"`
}

type orderResponse struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	Tier     string          `json:"tier"`
	Locale   string          `json:"locale"`
	Status   string          `json:"status"`
	ModelRef string          `json:"model_ref,omitempty"`
	Jobs     []jobResponse   `json:"jobs,omitempty"`
	Assets   []assetResponse `json:"assets,omitempty"`
}

type jobResponse struct {
	ProviderID string `json:"provider_id"`
	Style      string `json:"style"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

type assetResponse struct {
	Style      string `json:"style"`
	StyleTitle string `json:"style_title"`
	Idx        int    `json:"idx"`
	URL        string `json:"url"`
}

// CreateOrder records a new order in pending; payment confirmation arrives
// separately.
func (a *App) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email is required")
		return
	}
	tier, err := domain.ParseTier(req.Tier)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown tier")
		return
	}

	order := &domain.Order{
		ID:     uuid.NewString(),
		Email:  req.Email,
		Tier:   tier,
		Locale: middleware.LocaleFromContext(r.Context()),
		Status: domain.OrderStatusPending,
	}
	if err := a.Orders.Create(r.Context(), order); err != nil {
		a.Logger.Error().Err(err).Msg("orders: create failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create order")
		return
	}
	a.json(w, http.StatusCreated, orderResponse{
		ID:     order.ID,
		Email:  order.Email,
		Tier:   string(order.Tier),
		Locale: order.Locale,
		Status: string(order.Status),
	})
}

// GetOrder returns the order with its jobs and persisted assets.
func (a *App) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := a.Orders.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "order not found")
			return
		}
		a.Logger.Error().Err(err).Str("order_id", id).Msg("orders: load failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load order")
		return
	}

	jobs, err := a.Jobs.ListByOrderID(r.Context(), id)
	if err != nil {
		a.Logger.Error().Err(err).Str("order_id", id).Msg("orders: list jobs failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load order")
		return
	}
	assets, err := a.Assets.ListByOrderID(r.Context(), id)
	if err != nil {
		a.Logger.Error().Err(err).Str("order_id", id).Msg("orders: list assets failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load order")
		return
	}

	resp := orderResponse{
		ID:       order.ID,
		Email:    order.Email,
		Tier:     string(order.Tier),
		Locale:   order.Locale,
		Status:   string(order.Status),
		ModelRef: order.ModelRef,
	}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, jobResponse{
			ProviderID: job.ProviderID,
			Style:      string(job.Style),
			Status:     string(job.Status),
			Error:      job.ErrorMessage,
		})
	}
	for _, asset := range assets {
		resp.Assets = append(resp.Assets, assetResponse{
			Style:      string(asset.Style),
			StyleTitle: notify.StyleTitle(string(asset.Style)),
			Idx:        asset.Idx,
			URL:        asset.URL,
		})
	}
	a.json(w, http.StatusOK, resp)
}

// transitionOrder performs one compare-and-set step of the order lifecycle,
// mapping a lost compare to domain.ErrConflict.
func (a *App) transitionOrder(r *http.Request, id string, expected, next domain.OrderStatus) error {
	won, err := a.Orders.CompareAndSetStatus(r.Context(), id, expected, next)
	if err != nil {
		return err
	}
	if !won {
		return domain.ErrConflict
	}
	return nil
}

// MarkPaid reacts to an external payment confirmation by moving the order
// from pending to paid. A replayed confirmation is answered with a conflict
// instead of a second transition.
func (a *App) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.transitionOrder(r, id, domain.OrderStatusPending, domain.OrderStatusPaid); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			a.error(w, http.StatusConflict, "conflict", "order is not pending")
			return
		}
		a.Logger.Error().Err(err).Str("order_id", id).Msg("orders: mark paid failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update order")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"id": id, "status": string(domain.OrderStatusPaid)})
}

type startTrainingRequest struct {
	InputImagesURL string `json:"input_images_url"`
}

// StartTraining kicks off the generation phase: the paid→training
// compare-and-set gates the provider submission so a double-submitted
// request cannot train twice, and the training-job mapping is recorded
// before acknowledging so the completion webhook can find its order.
func (a *App) StartTraining(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req startTrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.InputImagesURL == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "input_images_url is required")
		return
	}

	if err := a.transitionOrder(r, id, domain.OrderStatusPaid, domain.OrderStatusTraining); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			a.error(w, http.StatusConflict, "conflict", "order is not paid")
			return
		}
		a.Logger.Error().Err(err).Str("order_id", id).Msg("orders: start training failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update order")
		return
	}

	trainingID, err := a.Trainer.StartTraining(r.Context(), req.InputImagesURL)
	if err != nil {
		a.Logger.Error().Err(err).Str("order_id", id).Msg("orders: training submission failed")
		if failErr := a.Orders.SetFailed(r.Context(), id, "training submission failed"); failErr != nil {
			a.Logger.Error().Err(failErr).Str("order_id", id).Msg("orders: failed to mark order failed")
		}
		a.error(w, http.StatusBadGateway, "provider_failure", "training submission failed")
		return
	}

	if err := a.Training.Create(r.Context(), &domain.TrainingJob{ProviderID: trainingID, OrderID: id}); err != nil {
		// Without the mapping the training webhook can never find this
		// order, so the order is failed rather than silently stalled.
		a.Logger.Error().Err(err).Str("order_id", id).Str("training_id", trainingID).Msg("orders: failed to record training job")
		if failErr := a.Orders.SetFailed(r.Context(), id, "training mapping not recorded"); failErr != nil {
			a.Logger.Error().Err(failErr).Str("order_id", id).Msg("orders: failed to mark order failed")
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to record training job")
		return
	}

	a.json(w, http.StatusAccepted, map[string]string{
		"id":              id,
		"status":          string(domain.OrderStatusTraining),
		"training_job_id": trainingID,
	})
}
