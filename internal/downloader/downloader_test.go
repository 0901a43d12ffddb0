package downloader

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	if err := validateImage(pngBytes(t)); err != nil {
		t.Fatalf("valid png rejected: %v", err)
	}
	if err := validateImage([]byte("<html>Access Denied</html>")); err == nil {
		t.Fatalf("html body accepted as image")
	}
	if err := validateImage(nil); err == nil {
		t.Fatalf("empty body accepted")
	}
	// RIFF container claiming WEBP with a garbage payload
	fake := append([]byte("RIFF\x24\x00\x00\x00WEBP"), bytes.Repeat([]byte{0xAB}, 32)...)
	if err := validateImage(fake); err == nil {
		t.Fatalf("malformed webp accepted")
	}
}

func TestDownloadWritesAndSkipsExisting(t *testing.T) {
	img := pngBytes(t)
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(img)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(dir)
	if err := d.Download(context.Background(), srv.URL, "p1.png"); err != nil {
		t.Fatalf("download: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "p1.png"))
	if err != nil || !bytes.Equal(got, img) {
		t.Fatalf("written file mismatch: %v", err)
	}

	if err := d.Download(context.Background(), srv.URL, "p1.png"); err != nil {
		t.Fatalf("re-download: %v", err)
	}
	if hits != 1 {
		t.Fatalf("existing file re-fetched, hits=%d", hits)
	}
}

func TestDownloadRejectsBlockPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>captcha required</html>"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := NewDownloader(dir)
	if err := d.Download(context.Background(), srv.URL, "p2.jpg"); err == nil {
		t.Fatalf("block page saved as image")
	}
	if _, err := os.Stat(filepath.Join(dir, "p2.jpg")); err == nil {
		t.Fatalf("partial file left behind")
	}
}

func TestImageFilename(t *testing.T) {
	{
		got := imageFilename("AB123", "", "https://cdn.example.com/x/y.webp?sw=400")
		if got != "AB123.webp" {
			t.Fatalf("got=%s", got)
		}
	}
	{
		got := imageFilename("AB 12/3", "v:1", "https://cdn.example.com/img")
		if got != "AB-12-3_v-1.jpg" {
			t.Fatalf("got=%s", got)
		}
	}
}
