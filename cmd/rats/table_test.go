package main

import (
	"strings"
	"testing"
)

func TestRenderTableIncludesHeadersAndRows(t *testing.T) {
	out := renderTable(
		[]string{"Image", "Best"},
		[][]string{{"beauty.exr", "7"}, {"normals.exr", "3"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	for _, want := range []string{"Image", "Best", "beauty.exr", "normals.exr", "7", "3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, nil, nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestShortRunID(t *testing.T) {
	if got := shortRunID("123e4567-e89b-12d3-a456-426614174000"); got != "123e4567" {
		t.Fatalf("shortRunID = %q", got)
	}
	if got := shortRunID("abc"); got != "abc" {
		t.Fatalf("shortRunID short input = %q", got)
	}
}

func TestFormatFloat(t *testing.T) {
	if got := formatFloat(0.004); got != "0.004" {
		t.Fatalf("formatFloat = %q", got)
	}
	if got := formatFloat(11.1111); got != "11.1111" {
		t.Fatalf("formatFloat = %q", got)
	}
}
