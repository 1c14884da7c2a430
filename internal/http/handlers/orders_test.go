package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"headshots/internal/domain"
)

type stubOrders struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newStubOrders() *stubOrders {
	return &stubOrders{orders: make(map[string]*domain.Order)}
}

func (s *stubOrders) Create(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *order
	s.orders[order.ID] = &cp
	return nil
}

func (s *stubOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (s *stubOrders) CompareAndSetStatus(ctx context.Context, id string, expected, next domain.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok || order.Status != expected {
		return false, nil
	}
	order.Status = next
	return true, nil
}

func (s *stubOrders) SetModelRef(ctx context.Context, id, modelRef string) error { return nil }

func (s *stubOrders) SetFailed(ctx context.Context, id, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.orders[id]; ok && !order.Status.Terminal() {
		order.Status = domain.OrderStatusFailed
		order.ErrorMessage = reason
	}
	return nil
}

func (s *stubOrders) status(id string) domain.OrderStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].Status
}

type stubTrainingJobs struct {
	mu   sync.Mutex
	jobs map[string]*domain.TrainingJob
}

func newStubTrainingJobs() *stubTrainingJobs {
	return &stubTrainingJobs{jobs: make(map[string]*domain.TrainingJob)}
}

func (s *stubTrainingJobs) Create(ctx context.Context, job *domain.TrainingJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *job
	s.jobs[job.ProviderID] = &cp
	return nil
}

func (s *stubTrainingJobs) GetByProviderID(ctx context.Context, providerID string) (*domain.TrainingJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[providerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

type stubTrainer struct {
	err error
}

func (s *stubTrainer) StartTraining(ctx context.Context, inputImagesURL string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "train-1", nil
}

func withOrderID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateOrderRejectsUnknownTier(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), Orders: newStubOrders()}
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(`{"email":"a@b.c","tier":"deluxe"}`))
	rr := httptest.NewRecorder()

	app.CreateOrder(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestCreateOrderStartsPending(t *testing.T) {
	orders := newStubOrders()
	app := &App{Logger: zerolog.Nop(), Orders: orders}
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", strings.NewReader(`{"email":"a@b.c","tier":"professional"}`))
	rr := httptest.NewRecorder()

	app.CreateOrder(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"status":"pending"`) {
		t.Fatalf("body = %s, want pending order", rr.Body.String())
	}
}

func TestMarkPaidIsSingleShot(t *testing.T) {
	orders := newStubOrders()
	_ = orders.Create(context.Background(), &domain.Order{ID: "order-1", Status: domain.OrderStatusPending})
	app := &App{Logger: zerolog.Nop(), Orders: orders}

	first := httptest.NewRecorder()
	app.MarkPaid(first, withOrderID(httptest.NewRequest(http.MethodPost, "/v1/orders/order-1/paid", nil), "order-1"))
	if first.Code != http.StatusOK {
		t.Fatalf("first confirmation status = %d, want 200", first.Code)
	}

	second := httptest.NewRecorder()
	app.MarkPaid(second, withOrderID(httptest.NewRequest(http.MethodPost, "/v1/orders/order-1/paid", nil), "order-1"))
	if second.Code != http.StatusConflict {
		t.Fatalf("replayed confirmation status = %d, want 409", second.Code)
	}
}

func TestStartTrainingRecordsMapping(t *testing.T) {
	orders := newStubOrders()
	_ = orders.Create(context.Background(), &domain.Order{ID: "order-1", Status: domain.OrderStatusPaid, Tier: domain.TierStarter})
	training := newStubTrainingJobs()
	app := &App{Logger: zerolog.Nop(), Orders: orders, Training: training, Trainer: &stubTrainer{}}

	body := `{"input_images_url":"https://uploads.example/selfies.zip"}`
	rr := httptest.NewRecorder()
	app.StartTraining(rr, withOrderID(httptest.NewRequest(http.MethodPost, "/v1/orders/order-1/train", strings.NewReader(body)), "order-1"))

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rr.Code, rr.Body.String())
	}
	if got := orders.status("order-1"); got != domain.OrderStatusTraining {
		t.Fatalf("order status = %q, want training", got)
	}
	if _, err := training.GetByProviderID(context.Background(), "train-1"); err != nil {
		t.Fatalf("training mapping not recorded: %v", err)
	}
}

func TestStartTrainingRejectsUnpaidOrder(t *testing.T) {
	orders := newStubOrders()
	_ = orders.Create(context.Background(), &domain.Order{ID: "order-1", Status: domain.OrderStatusPending})
	app := &App{Logger: zerolog.Nop(), Orders: orders, Training: newStubTrainingJobs(), Trainer: &stubTrainer{}}

	body := `{"input_images_url":"https://uploads.example/selfies.zip"}`
	rr := httptest.NewRecorder()
	app.StartTraining(rr, withOrderID(httptest.NewRequest(http.MethodPost, "/v1/orders/order-1/train", strings.NewReader(body)), "order-1"))

	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
	if got := orders.status("order-1"); got != domain.OrderStatusPending {
		t.Fatalf("order status = %q, want pending", got)
	}
}

func TestStartTrainingProviderFailureFailsOrder(t *testing.T) {
	orders := newStubOrders()
	_ = orders.Create(context.Background(), &domain.Order{ID: "order-1", Status: domain.OrderStatusPaid})
	app := &App{Logger: zerolog.Nop(), Orders: orders, Training: newStubTrainingJobs(), Trainer: &stubTrainer{err: errors.New("quota exhausted")}}

	body := `{"input_images_url":"https://uploads.example/selfies.zip"}`
	rr := httptest.NewRecorder()
	app.StartTraining(rr, withOrderID(httptest.NewRequest(http.MethodPost, "/v1/orders/order-1/train", strings.NewReader(body)), "order-1"))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	if got := orders.status("order-1"); got != domain.OrderStatusFailed {
		t.Fatalf("order status = %q, want failed", got)
	}
}
