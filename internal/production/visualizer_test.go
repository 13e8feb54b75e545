// Tests for DefaultVisualizer DOT and JSON export.
package production

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/comalice/calcx"
)

func TestDefaultVisualizer_ExportDOT(t *testing.T) {
	v := &DefaultVisualizer{}
	e := calcx.New()
	dot := v.ExportDOT(e.Chart(), e.State())

	if !strings.Contains(dot, `digraph Calculator {`) {
		t.Error("Missing DOT header")
	}
	if !strings.Contains(dot, `"normal" [label="normal" style="rounded,filled" fillcolor=lightgreen peripheries=2];`) {
		t.Errorf("Missing active initial state node:\n%s", dot)
	}
	if !strings.Contains(dot, `"normal" -> "error" [label="binary?, equals?, toggle?, unary?"];`) {
		t.Errorf("Missing guarded error edge:\n%s", dot)
	}
	if !strings.Contains(dot, `"error" -> "normal" [label="binary, clear, decimal, digit, equals, toggle, unary"];`) {
		t.Errorf("Missing recovery edge:\n%s", dot)
	}
}

func TestDefaultVisualizer_ExportDOT_ErrorActive(t *testing.T) {
	e := calcx.New()
	if _, err := e.Apply(calcx.UnaryOperator(calcx.OpReciprocal)); err != nil {
		t.Fatal(err)
	}
	dot := (&DefaultVisualizer{}).ExportDOT(e.Chart(), e.State())
	if !strings.Contains(dot, `"error" [label="error" style="rounded,filled" fillcolor=lightgreen];`) {
		t.Errorf("error state not highlighted:\n%s", dot)
	}
}

func TestDefaultVisualizer_ExportJSON(t *testing.T) {
	data, err := (&DefaultVisualizer{}).ExportJSON(calcx.New().Chart())
	if err != nil {
		t.Fatal(err)
	}
	var chart calcx.Chart
	if err := json.Unmarshal(data, &chart); err != nil {
		t.Fatal(err)
	}
	if chart.Initial != "normal" || len(chart.States) != 2 {
		t.Errorf("unexpected chart: %+v", chart)
	}
}
