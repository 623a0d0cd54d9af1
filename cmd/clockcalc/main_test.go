// ABOUTME: Tests for the clock table builder
// ABOUTME: Checks row contents for reachable and unreachable rates
package main

import (
	"strings"
	"testing"

	"github.com/Resonate-Protocol/resonate-tone/pkg/clock"
)

func TestBuildRows(t *testing.T) {
	rows, failed := buildRows([]int{48000, -1, 44100})

	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if len(failed) != 1 || !failed[1] {
		t.Errorf("failed = %v, want only row 1", failed)
	}

	cfg, err := clock.Compute(48000)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if rows[0][0] != "48000" || rows[0][1] != "4" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if !strings.HasPrefix(rows[0][3], "28+") || !strings.HasSuffix(rows[0][3], "/10000") {
		t.Errorf("pll column = %q for %+v", rows[0][3], cfg.PLL)
	}
	if !strings.Contains(rows[1][3], "must be positive") {
		t.Errorf("error column = %q", rows[1][3])
	}
	for i, row := range rows {
		if len(row) != 8 {
			t.Errorf("row %d has %d columns", i, len(row))
		}
	}
}

func TestBuildRowsSupported(t *testing.T) {
	_, failed := buildRows(clock.SupportedRates)
	if len(failed) != 0 {
		t.Errorf("supported rates failed: %v", failed)
	}
}
