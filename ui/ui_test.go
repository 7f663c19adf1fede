package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestCenterPadsVisibleWidth(t *testing.T) {
	got := Center("abcd", 10)
	if got != "   abcd   " {
		t.Fatalf("unexpected centering: %q", got)
	}

	// Styled text is measured without its escape codes.
	styled := ErrorStyle.Render("abcd")
	centered := Center(styled, 10)
	if !strings.Contains(centered, styled) {
		t.Fatal("expected styled text preserved")
	}
	if !strings.HasPrefix(centered, "   ") {
		t.Fatalf("expected visible-width padding, got %q", centered)
	}
}

func TestCenterLeavesWideStringsAlone(t *testing.T) {
	wide := strings.Repeat("x", 90)
	if got := Center(wide, 80); got != wide {
		t.Fatalf("expected wide string unchanged, got %q", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	got := FormatTimestamp("2025-06-15 14:30:00")
	if got != "02:30 PM - June 15, 2025" {
		t.Fatalf("unexpected timestamp format: %q", got)
	}

	// Unparseable input passes through.
	if got := FormatTimestamp("not a timestamp"); got != "not a timestamp" {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2025-07-01"); got != "July 01, 2025" {
		t.Fatalf("unexpected date format: %q", got)
	}
}

func TestEraseLinesCountsWrappedLines(t *testing.T) {
	var buf bytes.Buffer
	EraseLines(&buf, strings.Repeat("x", 100), 80)

	// 100 characters wrap to two 80-column lines.
	if got := strings.Count(buf.String(), "\033[A"); got != 2 {
		t.Fatalf("expected 2 cursor-up sequences, got %d", got)
	}
}

func TestHeaderIncludesTagline(t *testing.T) {
	var buf bytes.Buffer
	Header(&buf, true)

	out := buf.String()
	if !strings.Contains(out, Tagline) {
		t.Fatal("expected tagline in header")
	}
	if !strings.Contains(out, "Version: "+Version) {
		t.Fatal("expected version line in header")
	}
}

func TestBarChartScaling(t *testing.T) {
	chart := BarChart([]string{"big", "half", "tiny", "none"}, []float64{100, 50, 1, 0}, 40)

	lines := strings.Split(chart, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 bars, got %d", len(lines))
	}
	if count := strings.Count(lines[0], "█"); count != 40 {
		t.Errorf("largest value should fill the width, got %d cells", count)
	}
	if count := strings.Count(lines[1], "█"); count != 20 {
		t.Errorf("half value should fill half the width, got %d cells", count)
	}
	if count := strings.Count(lines[2], "█"); count != 1 {
		t.Errorf("small nonzero value should show one cell, got %d", count)
	}
	if count := strings.Count(lines[3], "█"); count != 0 {
		t.Errorf("zero value should show no bar, got %d cells", count)
	}
}

func TestTruncateAddsEllipsis(t *testing.T) {
	if got := Truncate("short", 20); got != "short" {
		t.Fatalf("short label must pass through, got %q", got)
	}
	if got := Truncate("a very long camp name indeed", 10); got != "a very lo…" {
		t.Fatalf("unexpected truncation: %q", got)
	}
}
