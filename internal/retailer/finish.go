package retailer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalog-crawler-go/internal/cache"
	"catalog-crawler-go/internal/catalog"
	"catalog-crawler-go/internal/config"
	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/downloader"
	"catalog-crawler-go/internal/logger"
	"catalog-crawler-go/internal/store"
)

var (
	seenOnce  sync.Once
	seenCache cache.Cache
)

func sharedCache() cache.Cache {
	seenOnce.Do(func() {
		seenCache = cache.NewFromConfig(config.AppConfig)
	})
	return seenCache
}

// SaveAll persists products one at a time with the request delay between
// writes, folding per-item failures into the result. Products saved within
// the cache TTL are skipped: the backends upsert anyway, so skipping only
// saves round trips on re-runs. Skipped products still count as succeeded
// because they remain part of the emitted catalog.
func SaveAll(ctx context.Context, req crawler.Request, products []store.Product, out *crawler.Result) {
	c := sharedCache()
	ttl := time.Duration(config.AppConfig.CacheDefaultTTLSec) * time.Second

	r := crawler.ForEachLimit(ctx, products, 1, func(ctx context.Context, p store.Product) error {
		key := fmt.Sprintf("seen:%s:%s:%s", req.Retailer, req.Country, p.ProductID)
		if c != nil {
			if _, ok, _ := c.Get(ctx, key); ok {
				return nil
			}
		}
		if err := store.SaveProduct(p); err != nil {
			logger.Error("save product failed", "retailer", req.Retailer, "product_id", p.ProductID, "err", err)
			return err
		}
		if c != nil {
			_ = c.Set(ctx, key, []byte("1"), ttl)
		}
		if req.Delay > 0 {
			crawler.Sleep(ctx, req.Delay)
		}
		return nil
	})
	out.Processed += r.Processed
	out.Succeeded += r.Succeeded
	out.Failed += r.Failed
	out.FailureKinds = crawler.MergeFailureKinds(out.FailureKinds, r.FailureKinds)
}

// Finish writes the store header and the catalog artifacts, then runs the
// optional image download pass. Artifacts are written even when some
// products failed to persist; an empty run still emits an empty catalog.
func Finish(ctx context.Context, req crawler.Request, si store.StoreInfo, products []store.Product) error {
	si.Retailer = req.Retailer
	si.Country = req.Country
	si.ProductCount = len(products)
	if si.CrawledAt == 0 {
		si.CrawledAt = time.Now().Unix()
	}
	if err := store.SaveStoreInfo(si); err != nil {
		logger.Error("save store info failed", "retailer", req.Retailer, "err", err)
	}

	dir := store.RetailerDir()
	if err := catalog.Emit(dir, si, products); err != nil {
		return err
	}
	if config.AppConfig.CatalogXLSX {
		if err := catalog.EmitXLSX(dir, products); err != nil {
			logger.Error("xlsx export failed", "retailer", req.Retailer, "err", err)
		}
	}
	if config.AppConfig.DownloadImages {
		d := downloader.NewDownloader(dir + "/images")
		d.DownloadProductImages(ctx, products, 1)
	}
	logger.Info("catalog emitted", "retailer", req.Retailer, "country", req.Country,
		"dir", dir, "products", len(products))
	return nil
}

// Truncate caps products at the configured maximum. Zero means no cap.
func Truncate(products []store.Product, max int) []store.Product {
	if max > 0 && len(products) > max {
		return products[:max]
	}
	return products
}
