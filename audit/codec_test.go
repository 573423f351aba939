package audit_test

import (
	"testing"
	"time"

	"github.com/r-bar/hookchain/audit"
)

func TestGetCodec(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"json", audit.CodecNameJSON},
		{"msgpack", audit.CodecNameMsgpack},
		{"", audit.CodecNameJSON},
		{"unknown", audit.CodecNameJSON},
	}
	for _, tt := range tests {
		if got := audit.GetCodec(tt.name).Name(); got != tt.want {
			t.Errorf("GetCodec(%q).Name() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCodec_Roundtrip(t *testing.T) {
	rec := &audit.Record{
		Action:     audit.ActionChainCompleted,
		Chain:      "invoice-paid",
		ChainID:    "chain_01h2xcejqtf2nbrexx3vqjhp41",
		Metadata:   map[string]any{"stage": int64(1)},
		Outcome:    audit.OutcomeSuccess,
		Severity:   audit.SeverityInfo,
		RecordedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}

	for _, name := range []string{audit.CodecNameJSON, audit.CodecNameMsgpack} {
		t.Run(name, func(t *testing.T) {
			c := audit.GetCodec(name)
			data, err := c.Encode(rec)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := c.Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.Action != rec.Action || got.Chain != rec.Chain || got.ChainID != rec.ChainID {
				t.Errorf("decoded identity = %q/%q/%q, want %q/%q/%q",
					got.Action, got.Chain, got.ChainID, rec.Action, rec.Chain, rec.ChainID)
			}
			if got.Outcome != rec.Outcome || got.Severity != rec.Severity {
				t.Errorf("decoded outcome/severity = %q/%q, want %q/%q",
					got.Outcome, got.Severity, rec.Outcome, rec.Severity)
			}
			if !got.RecordedAt.Equal(rec.RecordedAt) {
				t.Errorf("decoded RecordedAt = %v, want %v", got.RecordedAt, rec.RecordedAt)
			}
		})
	}
}
