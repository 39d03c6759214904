package result

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// ChartKind enumerates the supported chart types.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
)

// Chart is either a BarChart or a LineChart.
type Chart interface {
	Kind() ChartKind
	Config() ChartData
	isChart()
}

// ChartData is the labels/datasets payload handed to the charting library.
// Keys other than labels and datasets (options, plugins) ride along in Wire.
type ChartData struct {
	Labels   []Label     `json:"labels" validate:"required"`
	Datasets []Series    `json:"datasets" validate:"required,dive"`
	Wire     Passthrough `json:"-"`
}

// UnmarshalJSON decodes the config and keeps unknown keys.
func (c *ChartData) UnmarshalJSON(b []byte) error {
	type plain ChartData
	var p plain
	wire, err := decodeObject(b, &p)
	if err != nil {
		return err
	}
	p.Wire = wire
	*c = ChartData(p)
	return nil
}

// MarshalJSON re-emits the config with the keys it was decoded from.
func (c ChartData) MarshalJSON() ([]byte, error) {
	type plain ChartData
	return encodeObject(plain(c), c.Wire)
}

// Series is one plotted dataset. A nil entry in Data is a gap in the line.
type Series struct {
	Label           *string    `json:"label"`
	Data            []*float64 `json:"data" validate:"required"`
	BackgroundColor *Colors    `json:"backgroundColor"`
	BorderColor     *Colors    `json:"borderColor"`
	BorderWidth     *float64   `json:"borderWidth"`
	// Fill is kept verbatim: the charting library accepts a bool, string, number or object.
	Fill json.RawMessage `json:"fill"`
	Wire Passthrough     `json:"-"`
}

// UnmarshalJSON decodes a series and keeps unknown keys such as tension.
func (s *Series) UnmarshalJSON(b []byte) error {
	type plain Series
	var p plain
	wire, err := decodeObject(b, &p)
	if err != nil {
		return err
	}
	p.Wire = wire
	*s = Series(p)
	return nil
}

// MarshalJSON re-emits the series with the keys it was decoded from.
func (s Series) MarshalJSON() ([]byte, error) {
	type plain Series
	return encodeObject(plain(s), s.Wire)
}

// BarChart is a bar chart configuration.
type BarChart struct{ ChartData }

func (BarChart) Kind() ChartKind     { return ChartBar }
func (c BarChart) Config() ChartData { return c.ChartData }
func (BarChart) isChart()            {}

// LineChart is a line chart configuration.
type LineChart struct{ ChartData }

func (LineChart) Kind() ChartKind     { return ChartLine }
func (c LineChart) Config() ChartData { return c.ChartData }
func (LineChart) isChart()            {}

// NewChart builds the variant for kind.
func NewChart(kind ChartKind, data ChartData) (Chart, error) {
	switch kind {
	case ChartBar:
		return BarChart{data}, nil
	case ChartLine:
		return LineChart{data}, nil
	}
	return nil, fmt.Errorf("unsupported chart type %q", kind)
}

// VisualizationSpec wraps a chart and serializes as {"type": ..., "config": ...}.
type VisualizationSpec struct {
	Chart Chart
	Wire  Passthrough
}

type visualizationWire struct {
	Type   ChartKind   `json:"type" validate:"required,oneof=bar line"`
	Config *ChartData  `json:"config" validate:"required"`
	Wire   Passthrough `json:"-"`
}

// UnmarshalJSON keeps top-level keys other than type and config.
func (w *visualizationWire) UnmarshalJSON(b []byte) error {
	type plain visualizationWire
	var p plain
	wire, err := decodeObject(b, &p)
	if err != nil {
		return err
	}
	p.Wire = wire
	*w = visualizationWire(p)
	return nil
}

// Kind returns the chart kind, or "" when no chart is set.
func (v VisualizationSpec) Kind() ChartKind {
	if v.Chart == nil {
		return ""
	}
	return v.Chart.Kind()
}

// MarshalJSON writes the {"type", "config"} wire form.
func (v VisualizationSpec) MarshalJSON() ([]byte, error) {
	if v.Chart == nil {
		return []byte("null"), nil
	}
	type plain visualizationWire
	cfg := v.Chart.Config()
	return encodeObject(plain{Type: v.Chart.Kind(), Config: &cfg}, v.Wire)
}

// UnmarshalJSON accepts the wire form with the same checks as DecodeVisualization.
func (v *VisualizationSpec) UnmarshalJSON(b []byte) error {
	viz, err := decodeVisualization(b)
	if err != nil {
		return err
	}
	*v = viz
	return nil
}

// Label is a chart label. Numeric labels (years, ids) keep their literal.
type Label struct {
	Text string
	// Numeric marks Text as a JSON number literal.
	Numeric bool
}

// TextLabel returns a string label.
func TextLabel(s string) Label { return Label{Text: s} }

func (l Label) String() string { return l.Text }

// UnmarshalJSON accepts a string or a number.
func (l *Label) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Label{Text: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil || n == "" {
		return &json.UnmarshalTypeError{Value: string(b), Type: reflect.TypeOf(Label{})}
	}
	*l = Label{Text: n.String(), Numeric: true}
	return nil
}

// MarshalJSON emits the label in the form it was given.
func (l Label) MarshalJSON() ([]byte, error) {
	if l.Numeric {
		return json.Marshal(json.Number(l.Text))
	}
	return json.Marshal(l.Text)
}

// Colors is a single CSS color or a list of them.
type Colors struct {
	Values []string
	// Single marks a value given as one bare string.
	Single bool
}

// UnmarshalJSON accepts a string or a list of strings.
func (c *Colors) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Colors{Values: []string{s}, Single: true}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*c = Colors{Values: list}
	return nil
}

// MarshalJSON emits a bare string only when one was given.
func (c Colors) MarshalJSON() ([]byte, error) {
	if c.Single && len(c.Values) == 1 {
		return json.Marshal(c.Values[0])
	}
	if c.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Values)
}
