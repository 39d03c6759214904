package result

import "github.com/KaramelBytes/zeroml/internal/dataset"

// Diagnostic texts carried by fallback values.
const (
	CleaningFallbackStep      = "Error processing data cleaning instructions"
	VisualizationFallbackText = "Error loading data"
	ModelFallbackType         = "error"
	ModelFallbackCode         = "# Error generating model recommendation"
)

// CleaningFallback keeps the original dataset unmodified.
func CleaningFallback(original dataset.Dataset) CleaningResult {
	return CleaningResult{
		Steps:       []string{CleaningFallbackStep},
		UpdatedData: original,
	}
}

// VisualizationFallback is an empty bar chart with a single diagnostic series.
func VisualizationFallback() VisualizationSpec {
	label := VisualizationFallbackText
	return VisualizationSpec{Chart: BarChart{ChartData{
		Labels:   []Label{},
		Datasets: []Series{{Label: &label, Data: []*float64{}}},
	}}}
}

// ModelFallback marks the recommendation as failed.
func ModelFallback() ModelRecommendation {
	return ModelRecommendation{
		Type:            ModelFallbackType,
		Features:        []string{},
		Metrics:         &Metrics{},
		Code:            ModelFallbackCode,
		SerializedModel: &SerializedModel{},
	}
}
