package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"headshots/internal/domain"
	"headshots/internal/storage"
)

// BlobStore copies a provider-hosted object into owned storage and returns
// its public URL.
type BlobStore interface {
	CopyFromURL(ctx context.Context, srcURL, key string) (string, error)
}

// CompletionNotice carries everything the notification needs.
type CompletionNotice struct {
	Email      string
	Locale     string
	ResultURL  string
	AssetCount int
	Styles     []domain.Style
}

// Notifier sends the one completion notice per order. Failures are logged by
// the caller, never retried, and never roll back the committed transition.
type Notifier interface {
	SendCompletionNotice(ctx context.Context, notice CompletionNotice) error
}

// Generator submits one generation job to the provider and returns the
// provider-assigned job identifier.
type Generator interface {
	StartGeneration(ctx context.Context, modelRef string, style domain.Style, count int) (string, error)
}

// Reconciler mutates local order state in response to one inbound provider
// event. It owns every write to job and order status; nothing else may move
// an order to completed.
type Reconciler struct {
	orders    domain.OrderRepository
	jobs      domain.JobRepository
	assets    domain.AssetRepository
	training  domain.TrainingJobRepository
	blobs     BlobStore
	notifier  Notifier
	generator Generator
	agg       *Aggregator
	resultURL string
	logger    zerolog.Logger
}

// NewReconciler wires a Reconciler. resultBaseURL is the public site root
// used to build the result location in completion notices.
func NewReconciler(
	orders domain.OrderRepository,
	jobs domain.JobRepository,
	assets domain.AssetRepository,
	training domain.TrainingJobRepository,
	blobs BlobStore,
	notifier Notifier,
	generator Generator,
	resultBaseURL string,
	logger zerolog.Logger,
) *Reconciler {
	return &Reconciler{
		orders:    orders,
		jobs:      jobs,
		assets:    assets,
		training:  training,
		blobs:     blobs,
		notifier:  notifier,
		generator: generator,
		agg:       NewAggregator(jobs),
		resultURL: resultBaseURL,
		logger:    logger,
	}
}

// Handle processes one provider event. It is safe to invoke concurrently and
// to replay with the same event: terminal job statuses never regress, asset
// identity is keyed so copies overwrite rather than duplicate, and the order
// completion transition is a compare-and-set so the notice fires at most
// once. A nil return acknowledges the delivery; a non-nil return tells the
// transport to answer with a processing failure so the provider may retry.
func (r *Reconciler) Handle(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		return errors.New("webhook: event is missing a job identifier")
	}
	classified := Classify(ev)
	switch classified.Kind {
	case KindTrainingComplete:
		return r.handleTrainingComplete(ctx, ev.ID, classified)
	case KindGenerationComplete:
		return r.handleGenerationComplete(ctx, ev.ID, classified.ImageURLs)
	case KindFailure:
		return r.handleFailure(ctx, ev.ID, classified.ErrorDetail)
	case KindProgress:
		r.logger.Debug().Str("job_id", ev.ID).Str("status", string(ev.Status)).Msg("webhook: intermediate event")
		return nil
	}
	r.logger.Info().Str("job_id", ev.ID).Str("status", string(ev.Status)).Msg("webhook: unrecognized event shape")
	return nil
}

// handleGenerationComplete copies each produced image into owned storage,
// marks the job completed, and completes the order when aggregation first
// reports every job done.
func (r *Reconciler) handleGenerationComplete(ctx context.Context, jobID string, imageURLs []string) error {
	job, err := r.jobs.GetByProviderID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Benign race: event for a job this instance never recorded.
			r.logger.Warn().Str("job_id", jobID).Msg("webhook: generation job not found")
			return nil
		}
		return fmt.Errorf("webhook: load job %s: %w", jobID, err)
	}

	for i, srcURL := range imageURLs {
		if err := r.persistAsset(ctx, job, i, srcURL); err != nil {
			// One bad index must not block its siblings.
			r.logger.Error().Err(err).
				Str("job_id", jobID).
				Str("order_id", job.OrderID).
				Int("idx", i).
				Msg("webhook: failed to persist asset")
		}
	}

	if err := r.jobs.UpdateStatus(ctx, jobID, domain.JobStatusCompleted, nil); err != nil {
		return fmt.Errorf("webhook: mark job %s completed: %w", jobID, err)
	}

	complete, err := r.agg.IsOrderComplete(ctx, job.OrderID)
	if err != nil {
		return fmt.Errorf("webhook: aggregate order %s: %w", job.OrderID, err)
	}
	if !complete {
		return nil
	}
	return r.completeOrder(ctx, job.OrderID)
}

func (r *Reconciler) persistAsset(ctx context.Context, job *domain.Job, idx int, srcURL string) error {
	key := storage.HeadshotKey(job.OrderID, string(job.Style), idx)
	url, err := r.blobs.CopyFromURL(ctx, srcURL, key)
	if err != nil {
		return fmt.Errorf("copy %s: %w", srcURL, err)
	}
	asset := &domain.Asset{
		ID:            uuid.NewString(),
		OrderID:       job.OrderID,
		Style:         job.Style,
		Idx:           idx,
		StorageKey:    key,
		URL:           url,
		JobProviderID: job.ProviderID,
	}
	if err := r.assets.Save(ctx, asset); err != nil {
		return fmt.Errorf("record asset: %w", err)
	}
	return nil
}

// completeOrder performs the generating→completed compare-and-set. Only the
// caller that wins the transition sends the notice; a loser that finds the
// order already completed skips it.
func (r *Reconciler) completeOrder(ctx context.Context, orderID string) error {
	won, err := r.orders.CompareAndSetStatus(ctx, orderID, domain.OrderStatusGenerating, domain.OrderStatusCompleted)
	if err != nil {
		return fmt.Errorf("webhook: complete order %s: %w", orderID, err)
	}
	if !won {
		r.logger.Debug().Str("order_id", orderID).Msg("webhook: order already completed")
		return nil
	}

	order, err := r.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn().Str("order_id", orderID).Msg("webhook: completed order vanished before notification")
			return nil
		}
		return fmt.Errorf("webhook: load order %s: %w", orderID, err)
	}

	assets, err := r.assets.ListByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("webhook: list assets for order %s: %w", orderID, err)
	}

	notice := CompletionNotice{
		Email:      order.Email,
		Locale:     order.Locale,
		ResultURL:  fmt.Sprintf("%s/dashboard?order=%s", r.resultURL, orderID),
		AssetCount: len(assets),
		Styles:     distinctStyles(assets),
	}
	if err := r.notifier.SendCompletionNotice(ctx, notice); err != nil {
		// The transition is already committed; a lost notice is an
		// operational concern, not a reason to retry the event.
		r.logger.Error().Err(err).Str("order_id", orderID).Msg("webhook: completion notice failed")
	} else {
		r.logger.Info().Str("order_id", orderID).Int("assets", len(assets)).Msg("webhook: order completed, notice sent")
	}
	return nil
}

// handleTrainingComplete resolves the owning order from the training-job
// mapping, records the trained model, and fans out one generation job per
// purchased style. The training→generating compare-and-set gates the
// fan-out, so a redelivered training event cannot submit a second batch.
func (r *Reconciler) handleTrainingComplete(ctx context.Context, trainingID string, classified Classified) error {
	mapping, err := r.training.GetByProviderID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn().Str("training_id", trainingID).Msg("webhook: training job not found")
			return nil
		}
		return fmt.Errorf("webhook: load training job %s: %w", trainingID, err)
	}

	modelRef := classified.Version
	if modelRef == "" {
		modelRef = classified.Weights
	}
	if err := r.orders.SetModelRef(ctx, mapping.OrderID, modelRef); err != nil {
		return fmt.Errorf("webhook: record model ref for order %s: %w", mapping.OrderID, err)
	}

	won, err := r.orders.CompareAndSetStatus(ctx, mapping.OrderID, domain.OrderStatusTraining, domain.OrderStatusGenerating)
	if err != nil {
		return fmt.Errorf("webhook: start generation for order %s: %w", mapping.OrderID, err)
	}
	if !won {
		r.logger.Debug().Str("order_id", mapping.OrderID).Msg("webhook: generation already started")
		return nil
	}

	order, err := r.orders.GetByID(ctx, mapping.OrderID)
	if err != nil {
		return fmt.Errorf("webhook: load order %s: %w", mapping.OrderID, err)
	}

	for _, style := range order.Tier.Styles() {
		jobID, err := r.generator.StartGeneration(ctx, modelRef, style, order.Tier.ImagesPerStyle())
		if err != nil {
			// A failed submission stalls only this style; siblings proceed.
			r.logger.Error().Err(err).
				Str("order_id", order.ID).
				Str("style", string(style)).
				Msg("webhook: generation submission failed")
			continue
		}
		job := &domain.Job{
			ProviderID: jobID,
			OrderID:    order.ID,
			Style:      style,
			Status:     domain.JobStatusSubmitted,
		}
		if err := r.jobs.Create(ctx, job); err != nil {
			r.logger.Error().Err(err).
				Str("order_id", order.ID).
				Str("job_id", jobID).
				Msg("webhook: failed to record generation job")
		}
	}
	r.logger.Info().Str("order_id", order.ID).Msg("webhook: training complete, generation started")
	return nil
}

// handleFailure marks the matching job failed. A generation failure does not
// by itself fail the order; aggregation simply never reports it complete. A
// training failure is unrecoverable for the whole order, so the order is
// moved to failed as well.
func (r *Reconciler) handleFailure(ctx context.Context, jobID, detail string) error {
	if mapping, err := r.training.GetByProviderID(ctx, jobID); err == nil {
		r.logger.Error().Str("order_id", mapping.OrderID).Str("training_id", jobID).Str("error", detail).Msg("webhook: training failed")
		if err := r.orders.SetFailed(ctx, mapping.OrderID, detail); err != nil {
			return fmt.Errorf("webhook: fail order %s: %w", mapping.OrderID, err)
		}
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("webhook: load training job %s: %w", jobID, err)
	}

	r.logger.Error().Str("job_id", jobID).Str("error", detail).Msg("webhook: generation job failed")
	errDetail := detail
	if err := r.jobs.UpdateStatus(ctx, jobID, domain.JobStatusFailed, &errDetail); err != nil {
		return fmt.Errorf("webhook: mark job %s failed: %w", jobID, err)
	}
	return nil
}

func distinctStyles(assets []domain.Asset) []domain.Style {
	seen := make(map[domain.Style]struct{}, len(assets))
	var styles []domain.Style
	for _, asset := range assets {
		if _, ok := seen[asset.Style]; ok {
			continue
		}
		seen[asset.Style] = struct{}{}
		styles = append(styles, asset.Style)
	}
	return styles
}
