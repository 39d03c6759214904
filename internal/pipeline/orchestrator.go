// Package pipeline runs the three completion requests of a batch and joins
// their validated results.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KaramelBytes/zeroml/internal/ai"
	"github.com/KaramelBytes/zeroml/internal/dataset"
	"github.com/KaramelBytes/zeroml/internal/prompt"
	"github.com/KaramelBytes/zeroml/internal/result"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrProcessingFailed is returned when a batch hit an unexpected fault and
// produced no aggregate.
var ErrProcessingFailed = errors.New("error processing data")

// Sampling settings for the model-recommendation request.
const (
	ModelTemperature = 0.7
	ModelMaxTokens   = 4000
)

// Options carries the user's choices for one batch.
type Options struct {
	Task          string
	SelectedModel string
}

// Orchestrator issues one batch of requests at a time per call to Process.
type Orchestrator struct {
	rt        ai.Runtime
	model     string
	log       *zap.Logger
	validator *result.Validator
	metrics   *Metrics
}

// New returns an Orchestrator sending every request to model via rt.
// log and m may be nil.
func New(rt ai.Runtime, model string, log *zap.Logger, m *Metrics) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{rt: rt, model: model, log: log, validator: result.NewValidator(log), metrics: m}
}

// Process issues the cleaning, visualization and model requests concurrently
// and waits for all three. Malformed or failed responses are replaced by
// fallbacks; only a fault inside a branch (or an abandoned context) fails
// the batch.
func (o *Orchestrator) Process(ctx context.Context, ds dataset.Dataset, opts Options) (*result.AggregateResult, error) {
	batchID := uuid.NewString()
	log := o.log.With(zap.String("batch_id", batchID))
	start := time.Now()

	cleaningPrompt := prompt.Cleaning(ds)
	vizPrompt := prompt.Visualization(ds, opts.Task)
	modelPrompt := prompt.Model(ds, opts.Task, opts.SelectedModel)
	log.Info("batch started",
		zap.Int("rows", len(ds)),
		zap.String("selected_model", opts.SelectedModel),
		zap.Int("prompt_tokens_est", prompt.EstimateTokens(cleaningPrompt)+prompt.EstimateTokens(vizPrompt)+prompt.EstimateTokens(modelPrompt)),
	)

	var agg result.AggregateResult
	var g errgroup.Group
	g.Go(guard(result.KindCleaning, func() {
		raw, err := o.complete(ctx, log, result.KindCleaning, ai.Conversation{System: prompt.SystemCleaning, User: cleaningPrompt})
		var ok bool
		agg.Cleaning, ok = o.validator.Cleaning(raw, err, ds.Clone())
		o.record(result.KindCleaning, ok, err)
	}))
	g.Go(guard(result.KindVisualization, func() {
		raw, err := o.complete(ctx, log, result.KindVisualization, ai.Conversation{System: prompt.SystemVisualization, User: vizPrompt})
		var ok bool
		agg.Visualization, ok = o.validator.Visualization(raw, err)
		o.record(result.KindVisualization, ok, err)
	}))
	g.Go(guard(result.KindModel, func() {
		raw, err := o.complete(ctx, log, result.KindModel, ai.Conversation{
			System:      prompt.SystemModel,
			User:        modelPrompt,
			Temperature: ModelTemperature,
			MaxTokens:   ModelMaxTokens,
		})
		var ok bool
		agg.Model, ok = o.validator.Model(raw, err)
		o.record(result.KindModel, ok, err)
	}))

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		o.metrics.observeBatch("failed")
		log.Error("batch failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return nil, fmt.Errorf("%w: %w", ErrProcessingFailed, err)
	}
	o.metrics.observeBatch("succeeded")
	log.Info("batch finished", zap.Duration("took", time.Since(start)))
	return &agg, nil
}

func (o *Orchestrator) complete(ctx context.Context, log *zap.Logger, kind result.RequestKind, conv ai.Conversation) (string, error) {
	conv.Model = o.model
	start := time.Now()
	raw, err := ai.Complete(ctx, o.rt, conv)
	took := time.Since(start)
	o.metrics.observeDuration(kind, took)
	if err != nil {
		log.Warn("completion failed", zap.String("kind", string(kind)), zap.Error(err), zap.Duration("took", took))
		return "", err
	}
	log.Debug("completion received", zap.String("kind", string(kind)), zap.Int("bytes", len(raw)), zap.Duration("took", took))
	return raw, nil
}

func (o *Orchestrator) record(kind result.RequestKind, accepted bool, callErr error) {
	switch {
	case accepted:
		o.metrics.observeOutcome(kind, OutcomeAccepted)
	case callErr != nil:
		o.metrics.observeOutcome(kind, OutcomeCallError)
	default:
		o.metrics.observeOutcome(kind, OutcomeRejected)
	}
}

// guard converts a panic in fn into an error for the group.
func guard(kind result.RequestKind, fn func()) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s request panicked: %v", kind, r)
			}
		}()
		fn()
		return nil
	}
}
