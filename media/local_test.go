package media

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func multipartFile(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File[field]
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	return files[0]
}

func TestSaveKeepsExtensionAndContent(t *testing.T) {
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatal(err)
	}

	fh := multipartFile(t, "images", "Holiday Photo.JPG", []byte("jpeg bytes"))

	path, err := store.Save(fh)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(path, ".jpg") {
		t.Fatalf("path %q should keep a lowercased extension", path)
	}
	if strings.Contains(filepath.Base(path), " ") {
		t.Fatalf("stored name %q should not reuse the client filename", filepath.Base(path))
	}

	data, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "jpeg bytes" {
		t.Fatalf("content = %q", data)
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first, err := store.Save(multipartFile(t, "images", "a.png", []byte("1")))
	if err != nil {
		t.Fatal(err)
	}
	second, err := store.Save(multipartFile(t, "images", "a.png", []byte("2")))
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("two saves of the same filename collided: %s", first)
	}
}
