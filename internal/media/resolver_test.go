package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalResolver(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "properties"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "properties", "villa.jpg"), []byte("jpg"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewLocalResolver(root, "http://cdn.test/uploads/")
	ctx := context.Background()

	got, err := r.ResolveImageURL(ctx, "properties/villa.jpg")
	if err != nil || got != "http://cdn.test/uploads/properties/villa.jpg" {
		t.Fatalf("expected hosted url, got %q (%v)", got, err)
	}

	got, err = r.ResolveImageURL(ctx, "/uploads/properties/villa.jpg")
	if err != nil || got != "http://cdn.test/uploads/properties/villa.jpg" {
		t.Fatalf("expected prefixed reference to resolve, got %q (%v)", got, err)
	}

	got, err = r.ResolveImageURL(ctx, "https://images.example.com/a.png")
	if err != nil || got != "https://images.example.com/a.png" {
		t.Fatalf("expected remote url unchanged, got %q (%v)", got, err)
	}

	if _, err := r.ResolveImageURL(ctx, "missing.jpg"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.ResolveImageURL(ctx, "../../etc/passwd"); !errors.Is(err, ErrOutsideRoot) {
		t.Fatalf("expected ErrOutsideRoot, got %v", err)
	}
	if _, err := r.ResolveImageURL(ctx, "  "); !errors.Is(err, ErrEmptyReference) {
		t.Fatalf("expected ErrEmptyReference, got %v", err)
	}
	if _, err := r.ResolveImageURL(ctx, "properties"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected directory to be rejected, got %v", err)
	}
}

func TestResolveImageObjectKeepsMetadata(t *testing.T) {
	r := NewLocalResolver(t.TempDir(), "http://cdn.test/uploads")
	obj, err := r.ResolveImageObject(context.Background(), Object{URL: "https://x.test/a.jpg", Caption: "Front", IsHero: true, Order: 2})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if obj.Caption != "Front" || !obj.IsHero || obj.Order != 2 {
		t.Fatalf("metadata lost: %+v", obj)
	}
}
