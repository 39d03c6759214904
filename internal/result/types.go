package result

import (
	"github.com/KaramelBytes/zeroml/internal/dataset"
)

// RequestKind names one of the three completion requests in a batch.
type RequestKind string

const (
	KindCleaning      RequestKind = "cleaning"
	KindVisualization RequestKind = "visualization"
	KindModel         RequestKind = "model"
)

// CleaningResult carries suggested cleaning steps and the replacement dataset.
type CleaningResult struct {
	Steps       []string        `json:"steps" validate:"required"`
	UpdatedData dataset.Dataset `json:"updatedData" validate:"required"`
	Wire        Passthrough     `json:"-"`
}

// UnmarshalJSON decodes a CleaningResult and keeps unknown keys.
func (c *CleaningResult) UnmarshalJSON(b []byte) error {
	type plain CleaningResult
	var p plain
	wire, err := decodeObject(b, &p)
	if err != nil {
		return err
	}
	p.Wire = wire
	*c = CleaningResult(p)
	return nil
}

// MarshalJSON re-emits the CleaningResult with the keys it was decoded from.
func (c CleaningResult) MarshalJSON() ([]byte, error) {
	type plain CleaningResult
	return encodeObject(plain(c), c.Wire)
}

// Metrics holds the optional evaluation figures reported for a model.
type Metrics struct {
	Accuracy        *float64    `json:"accuracy"`
	R2Score         *float64    `json:"r2_score"`
	CrossValidation []float64   `json:"cross_validation"`
	Wire            Passthrough `json:"-"`
}

// UnmarshalJSON decodes a Metrics and keeps unknown keys.
func (m *Metrics) UnmarshalJSON(b []byte) error {
	type plain Metrics
	var p plain
	wire, err := decodeObject(b, &p)
	if err != nil {
		return err
	}
	p.Wire = wire
	*m = Metrics(p)
	return nil
}

// MarshalJSON re-emits the Metrics with the keys it was decoded from.
func (m Metrics) MarshalJSON() ([]byte, error) {
	type plain Metrics
	return encodeObject(plain(m), m.Wire)
}

// SerializedModel holds text-encoded model blobs.
type SerializedModel struct {
	Joblib string      `json:"joblib"`
	Pickle string      `json:"pickle"`
	Wire   Passthrough `json:"-"`
}

// UnmarshalJSON decodes a SerializedModel and keeps unknown keys.
func (s *SerializedModel) UnmarshalJSON(b []byte) error {
	type plain SerializedModel
	var p plain
	wire, err := decodeObject(b, &p)
	if err != nil {
		return err
	}
	p.Wire = wire
	*s = SerializedModel(p)
	return nil
}

// MarshalJSON re-emits the SerializedModel with the keys it was decoded from.
func (s SerializedModel) MarshalJSON() ([]byte, error) {
	type plain SerializedModel
	return encodeObject(plain(s), s.Wire)
}

// ModelRecommendation is the generated model choice plus training script.
type ModelRecommendation struct {
	Type            string           `json:"type" validate:"required"`
	Features        []string         `json:"features" validate:"required"`
	Metrics         *Metrics         `json:"metrics" validate:"required"`
	Code            string           `json:"code" validate:"required"`
	SerializedModel *SerializedModel `json:"serializedModel"`
	Wire            Passthrough      `json:"-"`
}

// UnmarshalJSON decodes a ModelRecommendation and keeps unknown keys.
func (m *ModelRecommendation) UnmarshalJSON(b []byte) error {
	type plain ModelRecommendation
	var p plain
	wire, err := decodeObject(b, &p)
	if err != nil {
		return err
	}
	p.Wire = wire
	*m = ModelRecommendation(p)
	return nil
}

// MarshalJSON re-emits the ModelRecommendation with the keys it was decoded from.
func (m ModelRecommendation) MarshalJSON() ([]byte, error) {
	type plain ModelRecommendation
	return encodeObject(plain(m), m.Wire)
}

// ModelInfo is the metadata document exported next to the script.
type ModelInfo struct {
	Type     string   `json:"type"`
	Features []string `json:"features"`
	Metrics  *Metrics `json:"metrics"`
	Code     string   `json:"code"`
}

// Info returns the exportable subset of the recommendation.
func (m ModelRecommendation) Info() ModelInfo {
	return ModelInfo{Type: m.Type, Features: m.Features, Metrics: m.Metrics, Code: m.Code}
}

// AggregateResult is the combined outcome of one batch. It is built only
// after all three requests have settled.
type AggregateResult struct {
	Cleaning      CleaningResult      `json:"cleaning"`
	Visualization VisualizationSpec   `json:"visualization"`
	Model         ModelRecommendation `json:"model"`
}
