package types

import (
	"encoding/json"
	"testing"
)

// TestOptionalUnmarshal tests that omitted, null and set fields decode
// distinguishably
func TestOptionalUnmarshal(t *testing.T) {
	var payload struct {
		Weight      Optional[float64] `json:"weight_kg"`
		Observation Optional[string]  `json:"observations"`
		Waist       Optional[float64] `json:"waist_cm"`
	}

	raw := `{"weight_kg": 72.5, "waist_cm": null}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !payload.Weight.Set || !payload.Weight.Valid {
		t.Error("Expected weight to be set and valid")
	}
	if payload.Weight.Value != 72.5 {
		t.Errorf("Expected weight 72.5, got %v", payload.Weight.Value)
	}

	if payload.Observation.Set {
		t.Error("Expected omitted observations to stay unset")
	}

	if !payload.Waist.Set {
		t.Error("Expected explicit null waist to be set")
	}
	if payload.Waist.Valid {
		t.Error("Expected explicit null waist to be invalid")
	}
}

// TestOptionalUnmarshalTypeError tests that bad values surface a decode error
func TestOptionalUnmarshalTypeError(t *testing.T) {
	var payload struct {
		Weight Optional[float64] `json:"weight_kg"`
	}
	if err := json.Unmarshal([]byte(`{"weight_kg": "heavy"}`), &payload); err == nil {
		t.Error("Expected error decoding string into float optional")
	}
}
