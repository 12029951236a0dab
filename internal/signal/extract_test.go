package signal

import "testing"

func TestExtractStopLoss(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"clean label", "Position: 1.2 SL: 4950.50 TP: 5100", "4950", true},
		{"misread label", "Position: 1.2 5L: 4950.50 TP: 5100", "4950", true},
		{"no space after colon", "SL:4950.12", "4950", true},
		{"no colon", "SL 4950.12", "4950", true},
		{"missing field", "Position: 1.2 TP: 5100.00", "", false},
		{"no decimal point", "SL: 4950 TP", "", false},
		{"empty blob", "", "", false},
		{"surrounded by noise", "xx$%SL: 61250.00qq", "61250", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractStopLoss(tt.text)
			if got != tt.want || found != tt.found {
				t.Errorf("ExtractStopLoss(%q) = (%q, %v), want (%q, %v)",
					tt.text, got, found, tt.want, tt.found)
			}
		})
	}
}

func TestExtractEntry(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		found bool
	}{
		{"clean label", "Entry: 5012.30 SL: 4950.50", "5012", true},
		{"misread entry label not accepted", "Entrv: 5012.30", "", false},
		{"missing field", "SL: 4950.50", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractEntry(tt.text)
			if got != tt.want || found != tt.found {
				t.Errorf("ExtractEntry(%q) = (%q, %v), want (%q, %v)",
					tt.text, got, found, tt.want, tt.found)
			}
		})
	}
}
