package styles

import (
	"strings"
	"testing"
)

func TestDiagnostic(t *testing.T) {
	got := Diagnostic("img", 3, 12, "unknown alignment \"X\"")

	for _, want := range []string{"warning", "img", "(3, 12)", "unknown alignment"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in %q", want, got)
		}
	}
}
