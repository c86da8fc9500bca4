package browser

import (
	"testing"
)

// Captured from the live results panel; the extractor is tested against
// static text so pattern updates never need a browser.
const fullPanel = `Performance & Memory Results
Model fits comfortably!
45.67 GB of 141 GB VRAM
8.12 GB shared + 4.31 GB per user
Per-User Speed: ~30.8 tok/s
Total Throughput: ~123.4 tok/s
Batch: 4 | Users: 4`

func TestExtractFullPanel(t *testing.T) {
	ex := Extract(fullPanel)

	if ex.VRAMGB == nil || *ex.VRAMGB != 45.67 {
		t.Errorf("VRAMGB = %v, want 45.67", fmtMetric(ex.VRAMGB))
	}
	if ex.TokensPerUser == nil || *ex.TokensPerUser != 30.8 {
		t.Errorf("TokensPerUser = %v, want 30.8", fmtMetric(ex.TokensPerUser))
	}
	if ex.TotalThroughput == nil || *ex.TotalThroughput != 123.4 {
		t.Errorf("TotalThroughput = %v, want 123.4", fmtMetric(ex.TotalThroughput))
	}
}

func TestExtractMissingFieldsAreAbsentNotFatal(t *testing.T) {
	tests := []struct {
		name                          string
		text                          string
		wantVRAM, wantUser, wantTotal bool
	}{
		{"no vram", "Total Throughput: ~100 tok/s\nPer-User Speed: ~25 tok/s", false, true, true},
		{"no throughput", "45.67 GB of 141 GB VRAM\nPer-User Speed: ~25 tok/s", true, true, false},
		{"no per-user", "45.67 GB of 141 GB VRAM\nTotal Throughput: ~100 tok/s", true, false, true},
		{"empty text", "", false, false, false},
		{"unrelated text", "Loading calculator...", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := Extract(tt.text)
			if got := ex.VRAMGB != nil; got != tt.wantVRAM {
				t.Errorf("VRAMGB present = %v, want %v", got, tt.wantVRAM)
			}
			if got := ex.TokensPerUser != nil; got != tt.wantUser {
				t.Errorf("TokensPerUser present = %v, want %v", got, tt.wantUser)
			}
			if got := ex.TotalThroughput != nil; got != tt.wantTotal {
				t.Errorf("TotalThroughput present = %v, want %v", got, tt.wantTotal)
			}
		})
	}
}

func TestExtractGenerationSpeedFallback(t *testing.T) {
	// Some panel versions label per-user speed "Generation Speed".
	ex := Extract("Generation Speed: ~42.5 tok/s")
	if ex.TokensPerUser == nil || *ex.TokensPerUser != 42.5 {
		t.Errorf("TokensPerUser = %v, want 42.5", fmtMetric(ex.TokensPerUser))
	}
}

func TestExtractCommaDecimals(t *testing.T) {
	ex := Extract("45,67 GB of 141 GB VRAM\nTotal Throughput: ~123,4 tok/s")
	if ex.VRAMGB == nil || *ex.VRAMGB != 45.67 {
		t.Errorf("VRAMGB = %v, want 45.67", fmtMetric(ex.VRAMGB))
	}
	if ex.TotalThroughput == nil || *ex.TotalThroughput != 123.4 {
		t.Errorf("TotalThroughput = %v, want 123.4", fmtMetric(ex.TotalThroughput))
	}
}

func TestExtractIntegerThroughput(t *testing.T) {
	ex := Extract("Total Throughput: ~123 tok/s")
	if ex.TotalThroughput == nil || *ex.TotalThroughput != 123 {
		t.Errorf("TotalThroughput = %v, want 123", fmtMetric(ex.TotalThroughput))
	}
}

func TestExtractDistinctUserCountsParseIndependently(t *testing.T) {
	// Two scenarios identical except for the user count must yield
	// independently parsed floats.
	one := Extract("45.67 GB of 141 GB VRAM\nBatch: 1 | Users: 1")
	four := Extract("61.02 GB of 141 GB VRAM\nBatch: 1 | Users: 4")

	if one.VRAMGB == nil || four.VRAMGB == nil {
		t.Fatal("both VRAM figures should parse")
	}
	if *one.VRAMGB == *four.VRAMGB {
		t.Errorf("figures should differ: %v vs %v", *one.VRAMGB, *four.VRAMGB)
	}
}

func fmtMetric(v *float64) any {
	if v == nil {
		return "<nil>"
	}
	return *v
}
