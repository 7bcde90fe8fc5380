package core

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in        string
		wantCents int64
		wantErr   bool
	}{
		{in: "12.34", wantCents: 1234},
		{in: "12,34", wantErr: true},
		{in: "0", wantCents: 0},
		{in: "0.005", wantCents: 1},  // rounds up
		{in: "12.344", wantCents: 1234}, // rounds down
		{in: "12.346", wantCents: 1235}, // rounds up
		{in: "100", wantCents: 10000},
		{in: "-1", wantCents: -100}, // sign survives parsing; Validate rejects it
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseMoney(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMoney(%q) = %d, want error", tt.in, m.Cents)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoney(%q) error: %v", tt.in, err)
			}
			if m.Cents != tt.wantCents {
				t.Fatalf("ParseMoney(%q) = %d cents, want %d", tt.in, m.Cents, tt.wantCents)
			}
		})
	}
}

func TestMoney_Validate(t *testing.T) {
	if err := (Money{Cents: 0}).Validate(); err != nil {
		t.Fatalf("zero amount should validate: %v", err)
	}
	if err := (Money{Cents: 100}).Validate(); err != nil {
		t.Fatalf("positive amount should validate: %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err != ErrInvalidAmount {
		t.Fatalf("negative amount: got %v, want ErrInvalidAmount", err)
	}
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 1234, want: "12.34"},
		{cents: 0, want: "0"},
		{cents: 10000, want: "100"},
		{cents: 1050, want: "10.5"},
	}

	for _, tt := range tests {
		b, err := json.Marshal(Money{Cents: tt.cents})
		if err != nil {
			t.Fatalf("marshal %d: %v", tt.cents, err)
		}
		if string(b) != tt.want {
			t.Fatalf("marshal %d = %s, want %s", tt.cents, b, tt.want)
		}

		var m Money
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if m.Cents != tt.cents {
			t.Fatalf("round trip %d -> %s -> %d", tt.cents, b, m.Cents)
		}
	}
}

func TestMoney_UnmarshalJSONForms(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`42.5`), &m); err != nil || m.Cents != 4250 {
		t.Fatalf("number form: %v, %d", err, m.Cents)
	}
	if err := json.Unmarshal([]byte(`"42.5"`), &m); err != nil || m.Cents != 4250 {
		t.Fatalf("string form: %v, %d", err, m.Cents)
	}
	if err := json.Unmarshal([]byte(`"nope"`), &m); err != ErrInvalidAmount {
		t.Fatalf("invalid form: got %v, want ErrInvalidAmount", err)
	}
}
