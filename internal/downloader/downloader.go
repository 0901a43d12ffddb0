// Package downloader fetches product images after a crawl run resolves.
// Downloads are best effort: a failed image never fails the run.
package downloader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/webp"

	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/logger"
	"catalog-crawler-go/internal/store"
)

const maxImageBytes = 20 << 20

type Downloader struct {
	Client *http.Client
	Dir    string
}

func NewDownloader(dir string) *Downloader {
	return &Downloader{
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		Dir: dir,
	}
}

// Download fetches url into filename under the downloader's directory. An
// existing file is kept untouched, so re-runs skip images already on disk.
func (d *Downloader) Download(ctx context.Context, url, filename string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("image url is empty")
	}
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return err
	}

	dst := filepath.Join(d.Dir, filename)
	if _, err := os.Stat(dst); err == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("image fetch status=%d url=%s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return err
	}
	if err := validateImage(data); err != nil {
		return fmt.Errorf("image %s: %w", url, err)
	}

	tmp := dst + ".part"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, dst)
}

// validateImage rejects non-image payloads. Block pages served with a 200
// status are the common imposter, so the sniff runs on every body. WebP gets
// a full header decode because DetectContentType alone accepts any RIFF.
func validateImage(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty body")
	}
	ctype := http.DetectContentType(data)
	switch {
	case ctype == "image/webp":
		if _, err := webp.DecodeConfig(bytes.NewReader(data)); err != nil {
			return fmt.Errorf("invalid webp: %w", err)
		}
		return nil
	case strings.HasPrefix(ctype, "image/"):
		return nil
	default:
		return fmt.Errorf("not an image: detected %s", ctype)
	}
}

// DownloadProductImages walks products and pulls each main image plus variant
// images, a few at a time. Filenames derive from product and variant IDs so
// the layout stays stable across runs.
func (d *Downloader) DownloadProductImages(ctx context.Context, products []store.Product, limit int) crawler.ItemResult {
	type job struct {
		url      string
		filename string
	}
	var jobs []job
	for _, p := range products {
		if p.ImageURL != "" {
			jobs = append(jobs, job{url: p.ImageURL, filename: imageFilename(p.ProductID, "", p.ImageURL)})
		}
		for _, v := range p.Variants {
			if v.ImageURL != "" && v.ImageURL != p.ImageURL {
				jobs = append(jobs, job{url: v.ImageURL, filename: imageFilename(p.ProductID, v.VariantID, v.ImageURL)})
			}
		}
	}
	if limit <= 0 {
		limit = 4
	}

	res := crawler.ForEachLimit(ctx, jobs, limit, func(ctx context.Context, j job) error {
		if err := d.Download(ctx, j.url, j.filename); err != nil {
			logger.Warn("image download failed", "url", j.url, "err", err)
			return err
		}
		return nil
	})
	logger.Info("image downloads finished",
		"processed", res.Processed, "succeeded", res.Succeeded, "failed", res.Failed)
	return res
}

func imageFilename(productID, variantID, url string) string {
	ext := strings.ToLower(path.Ext(strippedPath(url)))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif", ".avif":
	default:
		ext = ".jpg"
	}
	name := sanitizeID(productID)
	if variantID != "" {
		name += "_" + sanitizeID(variantID)
	}
	return name + ext
}

func strippedPath(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	return rawURL
}

func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, id)
}
