package prompt

import (
	"strings"

	"github.com/KaramelBytes/zeroml/internal/dataset"
)

// System messages sent ahead of each user prompt.
const (
	SystemCleaning      = "You are a data cleaning assistant. Always respond with valid JSON only, no other text."
	SystemVisualization = "generate visualization according to the dataset"
	SystemModel         = "You are a machine learning assistant. Always respond with valid JSON only, no other text."
)

const jsonOnly = "Do not include any other text or explanation in your response, only the JSON object."

const cleaningShape = `{
  "steps": ["step1", "step2"],
  "updatedData": [[]]
}`

const visualizationShape = `{
  "type": "bar",
  "config": {
    "labels": [],
    "datasets": []
  }
}`

const modelShape = `{
  "type": "string",
  "features": ["feature1"],
  "metrics": {
    "accuracy": 0.95,
    "r2_score": 0.85,
    "cross_validation": [0.94, 0.95, 0.96]
  },
  "code": "give whole python script over here with saving model in joblib and pickle format"
}`

const modelScriptRequirements = `Include a complete, production-ready Python script in the code field that includes:
1. All necessary imports
2. Data preprocessing
3. Feature selection
4. Model training with cross-validation
5. Model evaluation`

// Cleaning renders the data-cleaning prompt for the sample of ds.
func Cleaning(ds dataset.Dataset) string {
	var sb strings.Builder
	sb.WriteString("Given this dataset:\n")
	writeSample(&sb, ds)
	writeShape(&sb, cleaningShape)
	sb.WriteString(jsonOnly)
	return sb.String()
}

// Visualization renders the chart-configuration prompt.
func Visualization(ds dataset.Dataset, task string) string {
	var sb strings.Builder
	writeTaskHeader(&sb, task)
	writeSample(&sb, ds)
	writeShape(&sb, visualizationShape)
	sb.WriteString(jsonOnly)
	return sb.String()
}

// Model renders the model-recommendation prompt. A non-empty selectedModel
// pins the model family the service must use.
func Model(ds dataset.Dataset, task, selectedModel string) string {
	var sb strings.Builder
	writeTaskHeader(&sb, task)
	writeSample(&sb, ds)
	if selectedModel != "" {
		sb.WriteString("Using the specified model: ")
		sb.WriteString(selectedModel)
	}
	sb.WriteString("\n")
	writeShape(&sb, modelShape)
	sb.WriteString(modelScriptRequirements)
	sb.WriteString("\n\n")
	sb.WriteString(jsonOnly)
	return sb.String()
}

func writeTaskHeader(sb *strings.Builder, task string) {
	sb.WriteString(`Given this dataset and task: "`)
	sb.WriteString(task)
	sb.WriteString("\"\n")
}

func writeSample(sb *strings.Builder, ds dataset.Dataset) {
	sb.WriteString(ds.Sample().Join())
	sb.WriteString("\n")
}

func writeShape(sb *strings.Builder, shape string) {
	sb.WriteString("\nYou must respond with valid JSON only, in exactly this format:\n")
	sb.WriteString(shape)
	sb.WriteString("\n\n")
}

// EstimateTokens approximates prompt size at one token per four characters.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	if n := len([]rune(text)) / 4; n > 0 {
		return n
	}
	return 1
}
