package canonical

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPublishImagesCopiesWinners(t *testing.T) {
	root := t.TempDir()
	scratch := t.TempDir()

	source := filepath.Join(scratch, "3", "beauty.exr")
	if err := os.MkdirAll(filepath.Dir(source), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(source, []byte("winner pixels"), 0o644); err != nil {
		t.Fatal(err)
	}

	pub, err := NewPublisher(root, "shading/glass", "scalar")
	if err != nil {
		t.Fatalf("NewPublisher returned error: %v", err)
	}

	if err := pub.PublishImages(map[string]string{"beauty.exr": source}); err != nil {
		t.Fatalf("PublishImages returned error: %v", err)
	}

	published := filepath.Join(root, "shading", "glass", "scalar", "beauty.exr")
	got, err := os.ReadFile(published)
	if err != nil {
		t.Fatalf("published reference missing: %v", err)
	}
	if string(got) != "winner pixels" {
		t.Fatalf("content = %q", got)
	}
}

func TestPublishImagesOverwritesPriorReference(t *testing.T) {
	root := t.TempDir()
	pub, err := NewPublisher(root, "test", "auto")
	if err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(pub.Dir(), "beauty.exr")
	if err := os.MkdirAll(pub.Dir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dest, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	source := filepath.Join(t.TempDir(), "beauty.exr")
	if err := os.WriteFile(source, []byte("fresh"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := pub.PublishImages(map[string]string{"beauty.exr": source}); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "fresh" {
		t.Fatalf("content = %q, want overwrite", got)
	}
}

func TestPublishImagesMissingSource(t *testing.T) {
	pub, err := NewPublisher(t.TempDir(), "test", "auto")
	if err != nil {
		t.Fatal(err)
	}
	err = pub.PublishImages(map[string]string{"beauty.exr": "/nonexistent/beauty.exr"})
	if err == nil {
		t.Fatal("expected error for missing source artifact")
	}
}

func TestNewPublisherValidation(t *testing.T) {
	if _, err := NewPublisher("", "test", "auto"); err == nil {
		t.Fatal("expected error for empty root")
	}
	if _, err := NewPublisher("/root", " ", "auto"); err == nil {
		t.Fatal("expected error for empty test path")
	}
	if _, err := NewPublisher("/root", "test", ""); err == nil {
		t.Fatal("expected error for empty exec mode")
	}
}
