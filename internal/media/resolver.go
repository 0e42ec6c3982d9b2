package media

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyReference = errors.New("empty image reference")
	ErrNotFound       = errors.New("image not found")
	ErrOutsideRoot    = errors.New("image path escapes upload directory")
)

// Object is an image with display metadata.
type Object struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	IsHero  bool   `json:"isHero"`
	Order   int    `json:"order"`
}

// Resolver turns user supplied image references into hosted URLs.
type Resolver interface {
	ResolveImageURL(ctx context.Context, ref string) (string, error)
	ResolveImageObject(ctx context.Context, obj Object) (*Object, error)
}

// LocalResolver accepts absolute http(s) URLs as-is and serves everything else
// from files under Root, published at BaseURL.
type LocalResolver struct {
	Root    string
	BaseURL string
}

func NewLocalResolver(root, baseURL string) *LocalResolver {
	return &LocalResolver{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (r *LocalResolver) ResolveImageURL(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrEmptyReference
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
		return ref, nil
	}

	rel := strings.TrimPrefix(ref, "/")
	rel = strings.TrimPrefix(rel, "uploads/")
	rel = path.Clean(filepath.ToSlash(rel))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", ErrOutsideRoot
	}

	info, err := os.Stat(filepath.Join(r.Root, filepath.FromSlash(rel)))
	if err != nil || !info.Mode().IsRegular() {
		return "", ErrNotFound
	}
	return r.BaseURL + "/" + rel, nil
}

func (r *LocalResolver) ResolveImageObject(ctx context.Context, obj Object) (*Object, error) {
	resolved, err := r.ResolveImageURL(ctx, obj.URL)
	if err != nil {
		return nil, err
	}
	out := obj
	out.URL = resolved
	return &out, nil
}
