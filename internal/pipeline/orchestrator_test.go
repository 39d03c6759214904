package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/KaramelBytes/zeroml/internal/ai"
	"github.com/KaramelBytes/zeroml/internal/dataset"
	"github.com/KaramelBytes/zeroml/internal/prompt"
	"github.com/KaramelBytes/zeroml/internal/result"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedRuntime answers by system prompt.
type scriptedRuntime struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	panics  map[string]bool
	seen    map[string]ai.GenerateRequest
}

func (s *scriptedRuntime) Generate(_ context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	sys := req.Messages[0].Content
	s.mu.Lock()
	if s.seen == nil {
		s.seen = map[string]ai.GenerateRequest{}
	}
	s.seen[sys] = req
	s.mu.Unlock()
	if s.panics[sys] {
		panic("runtime exploded")
	}
	if err := s.errs[sys]; err != nil {
		return nil, err
	}
	reply, ok := s.replies[sys]
	if !ok {
		return nil, errors.New("no scripted reply")
	}
	return &ai.GenerateResponse{Choices: []ai.Choice{{Message: ai.Message{Role: "assistant", Content: reply}}}}, nil
}

func sampleData() dataset.Dataset {
	return dataset.Parse("a,b\n1,2\n3,4")
}

const (
	cleaningJSON = `{"steps":["drop nulls"],"updatedData":[["a","b"],["1","2"]]}`
	vizJSON      = `{"type":"line","config":{"labels":[1,3],"options":{"responsive":true},"datasets":[{"label":"b","data":[2,null],"backgroundColor":["#36a2eb"],"tension":0.4}]}}`
	modelJSON    = `{"type":"Linear Regression","features":["a"],"metrics":{"r2_score":0.9,"cross_validation":[]},"code":"print('hi')"}`
)

func TestProcessAllSucceed(t *testing.T) {
	rt := &scriptedRuntime{replies: map[string]string{
		prompt.SystemCleaning:      cleaningJSON,
		prompt.SystemVisualization: vizJSON,
		prompt.SystemModel:         modelJSON,
	}}
	agg, err := New(rt, "gpt-test", nil, nil).Process(context.Background(), sampleData(), Options{Task: "predict b"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	got, err := json.Marshal(agg)
	if err != nil {
		t.Fatalf("marshal aggregate: %v", err)
	}
	want := `{"cleaning":` + cleaningJSON + `,"visualization":` + vizJSON + `,"model":` + modelJSON + `}`
	var w, g any
	if err := json.Unmarshal([]byte(want), &w); err != nil {
		t.Fatalf("bad expectation: %v", err)
	}
	if err := json.Unmarshal(got, &g); err != nil {
		t.Fatalf("aggregate is not JSON: %v", err)
	}
	if diff := cmp.Diff(w, g); diff != "" {
		t.Fatalf("aggregate differs from the replies (-want +got):\n%s", diff)
	}
	if agg.Visualization.Kind() != result.ChartLine {
		t.Fatalf("expected line chart, got %q", agg.Visualization.Kind())
	}

	modelReq := rt.seen[prompt.SystemModel]
	if modelReq.Temperature != ModelTemperature || modelReq.MaxTokens != ModelMaxTokens {
		t.Fatalf("model request sampling = %v/%d", modelReq.Temperature, modelReq.MaxTokens)
	}
	cleanReq := rt.seen[prompt.SystemCleaning]
	if cleanReq.Temperature != 0 || cleanReq.MaxTokens != 0 {
		t.Fatalf("cleaning request must leave sampling to the service: %+v", cleanReq)
	}
	for sys, req := range rt.seen {
		if req.Model != "gpt-test" {
			t.Fatalf("%q sent with model %q", sys[:20], req.Model)
		}
	}
}

func TestProcessAllFailYieldsFallbacks(t *testing.T) {
	down := errors.New("connection refused")
	rt := &scriptedRuntime{errs: map[string]error{
		prompt.SystemCleaning:      down,
		prompt.SystemVisualization: down,
		prompt.SystemModel:         down,
	}}
	data := sampleData()
	agg, err := New(rt, "m", nil, nil).Process(context.Background(), data, Options{})
	if err != nil {
		t.Fatalf("request failures must not fail the batch: %v", err)
	}
	if diff := cmp.Diff(result.CleaningFallback(data), agg.Cleaning); diff != "" {
		t.Fatalf("cleaning fallback mismatch:\n%s", diff)
	}
	cfg := agg.Visualization.Chart.Config()
	if agg.Visualization.Kind() != result.ChartBar || len(cfg.Labels) != 0 || *cfg.Datasets[0].Label != result.VisualizationFallbackText {
		t.Fatalf("unexpected visualization fallback: %+v", cfg)
	}
	if agg.Model.Type != result.ModelFallbackType || agg.Model.Code != result.ModelFallbackCode {
		t.Fatalf("unexpected model fallback: %+v", agg.Model)
	}
}

func TestProcessMixedOutcomesAndMetrics(t *testing.T) {
	rt := &scriptedRuntime{
		replies: map[string]string{
			prompt.SystemCleaning:      "Here you go: " + cleaningJSON,
			prompt.SystemVisualization: vizJSON,
		},
		errs: map[string]error{prompt.SystemModel: &ai.RateLimitError{APIError: &ai.APIError{StatusCode: 429}}},
	}
	m, err := NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	agg, err := New(rt, "m", nil, m).Process(context.Background(), sampleData(), Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if agg.Cleaning.Steps[0] != result.CleaningFallbackStep {
		t.Fatalf("prose-wrapped JSON must be rejected, got %v", agg.Cleaning.Steps)
	}
	if agg.Visualization.Kind() != result.ChartLine {
		t.Fatalf("visualization should have been accepted")
	}
	if agg.Model.Type != result.ModelFallbackType {
		t.Fatalf("model should have fallen back")
	}

	checks := []struct {
		kind, outcome string
	}{
		{"cleaning", OutcomeRejected},
		{"visualization", OutcomeAccepted},
		{"model", OutcomeCallError},
	}
	for _, c := range checks {
		if got := testutil.ToFloat64(m.completions.WithLabelValues(c.kind, c.outcome)); got != 1 {
			t.Fatalf("completions{%s,%s} = %v", c.kind, c.outcome, got)
		}
	}
	if got := testutil.ToFloat64(m.batches.WithLabelValues("succeeded")); got != 1 {
		t.Fatalf("batches{succeeded} = %v", got)
	}
}

func TestProcessSelectedModelInPrompt(t *testing.T) {
	rt := &scriptedRuntime{}
	if _, err := New(rt, "m", nil, nil).Process(context.Background(), sampleData(), Options{SelectedModel: "KNN Classifier"}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	user := rt.seen[prompt.SystemModel].Messages[1].Content
	if !strings.Contains(user, "Using the specified model: KNN Classifier") {
		t.Fatalf("model prompt missing selection:\n%s", user)
	}
}

func TestProcessPanicFailsBatch(t *testing.T) {
	rt := &scriptedRuntime{
		replies: map[string]string{prompt.SystemCleaning: cleaningJSON, prompt.SystemModel: modelJSON},
		panics:  map[string]bool{prompt.SystemVisualization: true},
	}
	m, _ := NewMetrics(nil)
	agg, err := New(rt, "m", nil, m).Process(context.Background(), sampleData(), Options{})
	if !errors.Is(err, ErrProcessingFailed) {
		t.Fatalf("expected ErrProcessingFailed, got %v", err)
	}
	if agg != nil {
		t.Fatalf("no aggregate expected on failure")
	}
	if len(rt.seen) != 3 {
		t.Fatalf("every branch must run to completion, saw %d requests", len(rt.seen))
	}
	if got := testutil.ToFloat64(m.batches.WithLabelValues("failed")); got != 1 {
		t.Fatalf("batches{failed} = %v", got)
	}
}

func TestProcessCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rt := &scriptedRuntime{errs: map[string]error{
		prompt.SystemCleaning:      context.Canceled,
		prompt.SystemVisualization: context.Canceled,
		prompt.SystemModel:         context.Canceled,
	}}
	_, err := New(rt, "m", nil, nil).Process(ctx, sampleData(), Options{})
	if !errors.Is(err, ErrProcessingFailed) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped cancellation, got %v", err)
	}
}
