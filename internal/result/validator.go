package result

import (
	"github.com/KaramelBytes/zeroml/internal/dataset"
	"go.uber.org/zap"
)

const previewChars = 200

// Validator turns raw completion outcomes into typed values, substituting
// the documented fallback whenever the call failed or the payload is
// unusable. It never returns an error; the bool reports whether the
// payload was accepted.
type Validator struct {
	log *zap.Logger
}

// NewValidator returns a Validator logging rejections to log (nil = no logging).
func NewValidator(log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{log: log}
}

// Cleaning resolves the cleaning reply, falling back to the original dataset.
func (v *Validator) Cleaning(raw string, callErr error, original dataset.Dataset) (CleaningResult, bool) {
	if callErr != nil {
		v.reject(KindCleaning, raw, callErr)
		return CleaningFallback(original), false
	}
	out, err := DecodeCleaning(raw)
	if err != nil {
		v.reject(KindCleaning, raw, err)
		return CleaningFallback(original), false
	}
	return out, true
}

// Visualization resolves the chart reply.
func (v *Validator) Visualization(raw string, callErr error) (VisualizationSpec, bool) {
	if callErr != nil {
		v.reject(KindVisualization, raw, callErr)
		return VisualizationFallback(), false
	}
	out, err := DecodeVisualization(raw)
	if err != nil {
		v.reject(KindVisualization, raw, err)
		return VisualizationFallback(), false
	}
	return out, true
}

// Model resolves the model-recommendation reply.
func (v *Validator) Model(raw string, callErr error) (ModelRecommendation, bool) {
	if callErr != nil {
		v.reject(KindModel, raw, callErr)
		return ModelFallback(), false
	}
	out, err := DecodeModel(raw)
	if err != nil {
		v.reject(KindModel, raw, err)
		return ModelFallback(), false
	}
	return out, true
}

func (v *Validator) reject(kind RequestKind, raw string, err error) {
	v.log.Warn("completion rejected, using fallback",
		zap.String("kind", string(kind)),
		zap.Error(err),
		zap.Int("raw_bytes", len(raw)),
	)
	if raw != "" && v.log.Core().Enabled(zap.DebugLevel) {
		preview := []rune(raw)
		if len(preview) > previewChars {
			preview = preview[:previewChars]
		}
		v.log.Debug("rejected payload", zap.String("kind", string(kind)), zap.String("preview", string(preview)))
	}
}
