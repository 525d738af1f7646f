package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
var jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "profile-pictures/u1.png", want: "profile-pictures/u1.png"},
		{key: "/abs/path.png", want: "abs/path.png"},
		{key: "./a/../b.png", want: "b.png"},
		{key: `dir\file.png`, want: "dir/file.png"},
		{key: "../escape.png", wantErr: true},
		{key: "..", wantErr: true},
		{key: "   ", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, err := sanitizeKey(tc.key)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("sanitizeKey(%q) expected error, got %q", tc.key, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("sanitizeKey(%q) error: %v", tc.key, err)
			}
			if got != tc.want {
				t.Fatalf("sanitizeKey(%q) = %q, want %q", tc.key, got, tc.want)
			}
		})
	}
}

func TestImageExtension(t *testing.T) {
	if ext, err := ImageExtension(pngHeader); err != nil || ext != ".png" {
		t.Fatalf("png = %q, %v", ext, err)
	}
	if ext, err := ImageExtension(jpegHeader); err != nil || ext != ".jpg" {
		t.Fatalf("jpeg = %q, %v", ext, err)
	}
	if _, err := ImageExtension([]byte("plain text")); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("text error = %v, want ErrUnsupportedImage", err)
	}
	if _, err := ImageExtension(nil); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("empty error = %v, want ErrUnsupportedImage", err)
	}
}

func TestSaveProfilePictureReplacesOtherExtension(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "http://localhost:8080/static/")
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	ctx := context.Background()

	url, err := store.SaveProfilePicture(ctx, "user-1", jpegHeader)
	if err != nil {
		t.Fatalf("SaveProfilePicture jpeg error: %v", err)
	}
	if url != "http://localhost:8080/static/profile-pictures/user-1.jpg" {
		t.Fatalf("url = %q", url)
	}

	url, err = store.SaveProfilePicture(ctx, "user-1", pngHeader)
	if err != nil {
		t.Fatalf("SaveProfilePicture png error: %v", err)
	}
	if url != "http://localhost:8080/static/profile-pictures/user-1.png" {
		t.Fatalf("url = %q", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "profile-pictures", "user-1.jpg")); !os.IsNotExist(err) {
		t.Fatalf("old jpeg still present: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "profile-pictures", "user-1.png"))
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if string(data) != string(pngHeader) {
		t.Fatalf("stored bytes differ")
	}
}

func TestWriteHonoursCancelledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Write(ctx, "a.png", pngHeader); !errors.Is(err, context.Canceled) {
		t.Fatalf("Write error = %v, want context.Canceled", err)
	}
}
