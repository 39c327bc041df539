package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"gardeners.ai/internal/sim/garden"
)

func TestStepLogger_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewStepLogger(dir, "S1")

	entries := []garden.StepLogEntry{
		{Episode: 1, Step: 1, Actions: map[int]int{0: 5}, Rewards: map[int]float64{0: -0.1}, Digest: "aaaa"},
		{Episode: 1, Step: 2, Actions: map[int]int{0: 6}, Rewards: map[int]float64{0: 0.2}, Digest: "bbbb"},
	}
	for _, e := range entries {
		if err := l.WriteStep(e); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "steps", "steps-S1-*.jsonl.zst"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("log file: %v (%d matches)", err, len(matches))
	}

	f, err := os.Open(matches[0])
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd: %v", err)
	}
	defer dec.Close()

	var got []stepRecord
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var rec stepRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = append(got, rec)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("want 2 records, got %d", len(got))
	}
	for i, rec := range got {
		if rec.Session != "S1" {
			t.Fatalf("record %d: session %q", i, rec.Session)
		}
		if rec.Step != entries[i].Step || rec.Digest != entries[i].Digest {
			t.Fatalf("record %d: %+v", i, rec)
		}
	}
}
