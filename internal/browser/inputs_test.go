package browser

import (
	"fmt"
	"strings"
	"testing"
)

type fakeInputPage struct {
	inputAbsent bool
	lastScript  string
	toggleState string
}

func (f *fakeInputPage) Evaluate(script string, out any) error {
	f.lastScript = script
	switch res := out.(type) {
	case *setResult:
		if f.inputAbsent {
			*res = setResult{NotFound: true}
			return nil
		}
		*res = setResult{Success: true}
	case *string:
		*res = f.toggleState
	default:
		return fmt.Errorf("unexpected script result type %T", out)
	}
	return nil
}

func TestSetValueInsertsExactInteger(t *testing.T) {
	for _, value := range []int{1, 4, 64} {
		page := &fakeInputPage{}
		v := NewValueSetter(page, 0)

		if !v.SetValue(SelectorBatchSize, value) {
			t.Fatalf("SetValue(%d) should succeed", value)
		}
		want := fmt.Sprintf(`'insertText', false, "%d"`, value)
		if !strings.Contains(page.lastScript, want) {
			t.Errorf("script for %d does not insert the exact value:\n%s", value, page.lastScript)
		}
	}
}

func TestSetValueFiresInputAndChangeEvents(t *testing.T) {
	// A single notification type is not enough for the page to recompute.
	page := &fakeInputPage{}
	v := NewValueSetter(page, 0)
	v.SetValue(SelectorSequenceLength, 2048)

	if !strings.Contains(page.lastScript, `new Event('input'`) {
		t.Error("script missing input event dispatch")
	}
	if !strings.Contains(page.lastScript, `new Event('change'`) {
		t.Error("script missing change event dispatch")
	}
}

func TestSetValueFailsWhenInputMissing(t *testing.T) {
	page := &fakeInputPage{inputAbsent: true}
	v := NewValueSetter(page, 0)

	if v.SetValue(SelectorConcurrentUsers, 16) {
		t.Fatal("SetValue should fail when the input element is absent")
	}
}

func TestSwitchToManualMode(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{"Switched to Manual mode", true},
		{"Already in Manual mode", true},
		{"Toggle not found", false},
	}
	for _, tt := range tests {
		page := &fakeInputPage{toggleState: tt.state}
		if got := SwitchToManualMode(page, 0); got != tt.want {
			t.Errorf("SwitchToManualMode with %q = %v, want %v", tt.state, got, tt.want)
		}
	}
}
