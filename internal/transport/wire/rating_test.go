package wire

import (
	"encoding/json"
	"testing"
)

func TestRating_Decode(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantRate   float64
		wantObject bool
		wantErr    bool
	}{
		{"number", `4.5`, 4.5, false, false},
		{"integer", `3`, 3, false, false},
		{"object", `{"rate": 3.9, "count": 120}`, 3.9, true, false},
		{"object without count", `{"rate": 2}`, 2, true, false},
		{"object without rate", `{"count": 5}`, 0, false, true},
		{"string", `"4.5"`, 0, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var r Rating
			err := json.Unmarshal([]byte(tc.in), &r)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Rate != tc.wantRate || r.Object != tc.wantObject {
				t.Errorf("got %+v", r)
			}
		})
	}
}

func TestRating_EncodeKeepsForm(t *testing.T) {
	for _, in := range []string{`4.5`, `{"rate":3.9,"count":120}`} {
		var r Rating
		if err := json.Unmarshal([]byte(in), &r); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		out, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(out) != in {
			t.Errorf("round trip %s -> %s", in, out)
		}
	}
}

func TestProduct_NullRating(t *testing.T) {
	var p Product
	if err := json.Unmarshal([]byte(`{"id": 1, "rating": null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Rating.Value() != nil {
		t.Error("null rating should stay absent")
	}
}
