package deps

import (
	"testing"

	"arda/internal/config"
)

func TestCheckReportsMissingBinary(t *testing.T) {
	cfg := config.Default()
	cfg.Encode.FFmpegBinary = "definitely-not-a-real-binary-9000"
	cfg.Encode.FFprobeBinary = ""

	statuses := Check(&cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("nonexistent binary reported available")
	}
	if statuses[1].Detail != "binary not configured" {
		t.Fatalf("unexpected detail %q", statuses[1].Detail)
	}
	if Ready(statuses) {
		t.Fatal("Ready should be false with unavailable deps")
	}
}

func TestCheckNilConfig(t *testing.T) {
	if statuses := Check(nil); statuses != nil {
		t.Fatalf("expected nil, got %v", statuses)
	}
}

func TestReadyEmpty(t *testing.T) {
	if !Ready(nil) {
		t.Fatal("empty status list should be ready")
	}
}
