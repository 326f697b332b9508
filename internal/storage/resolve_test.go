package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/HenrikWarf/creative-studio/internal/domain"
)

type fakeLister struct {
	listResults [][]string
	listCalls   int
	exists      bool
	existsErr   error
}

func (f *fakeLister) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	idx := f.listCalls
	f.listCalls++
	if idx < len(f.listResults) {
		return f.listResults[idx], nil
	}
	return nil, nil
}

func (f *fakeLister) Exists(ctx context.Context, key string) (bool, error) {
	return f.exists, f.existsErr
}

func TestResolveFindsSuffixMatch(t *testing.T) {
	lister := &fakeLister{listResults: [][]string{
		nil,
		{"generated_videos/abc.mp4/part.tmp", "generated_videos/abc.mp4/sample_0.mp4"},
	}}
	key, err := Resolve(context.Background(), lister, "generated_videos/abc.mp4", ".mp4", 5, 0)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if key != "generated_videos/abc.mp4/sample_0.mp4" {
		t.Fatalf("unexpected key: %q", key)
	}
	if lister.listCalls != 2 {
		t.Fatalf("expected 2 list calls, got %d", lister.listCalls)
	}
}

func TestResolveFallsBackToExactKey(t *testing.T) {
	lister := &fakeLister{exists: true}
	key, err := Resolve(context.Background(), lister, "generated_videos/abc.mp4", ".mp4", 3, 0)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if key != "generated_videos/abc.mp4" {
		t.Fatalf("unexpected key: %q", key)
	}
}

func TestResolveExhaustsBudget(t *testing.T) {
	lister := &fakeLister{}
	_, err := Resolve(context.Background(), lister, "generated_videos/missing.mp4", ".mp4", 10, 0)
	if !errors.Is(err, domain.ErrOutputNotLocated) {
		t.Fatalf("expected ErrOutputNotLocated, got %v", err)
	}
	if lister.listCalls != 10 {
		t.Fatalf("expected exactly 10 list calls, got %d", lister.listCalls)
	}
}

func TestResolveHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lister := &fakeLister{}
	_, err := Resolve(ctx, lister, "generated_videos/x.mp4", ".mp4", 10, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIsPassThrough(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"https://storage.googleapis.com/bucket/key?sig=abc", true},
		{"http://example.com/image.png", true},
		{"Error: generation failed", true},
		{"data:image/png;base64,AAAA", true},
		{"", true},
		{"generated_images/abc.png", false},
		{"temp_inputs/xyz.png", false},
	}
	for _, tc := range cases {
		if got := IsPassThrough(tc.key); got != tc.want {
			t.Fatalf("IsPassThrough(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}
