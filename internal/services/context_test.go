package services

import (
	"context"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	if _, ok := RunIDFromContext(ctx); ok {
		t.Fatal("unexpected run id on empty context")
	}

	ctx = WithRunID(ctx, "run-1234")
	ctx = WithStage(ctx, "analyze")
	ctx = WithImage(ctx, "beauty.exr")

	if id, ok := RunIDFromContext(ctx); !ok || id != "run-1234" {
		t.Fatalf("run id = %q, %v", id, ok)
	}
	if stage, ok := StageFromContext(ctx); !ok || stage != "analyze" {
		t.Fatalf("stage = %q, %v", stage, ok)
	}
	if image, ok := ImageFromContext(ctx); !ok || image != "beauty.exr" {
		t.Fatalf("image = %q, %v", image, ok)
	}
}

func TestWithEmptyValuesAreNoOps(t *testing.T) {
	ctx := WithStage(context.Background(), "")
	if _, ok := StageFromContext(ctx); ok {
		t.Fatal("empty stage should not be stored")
	}
}
