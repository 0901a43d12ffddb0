// Package shopify walks a Shopify storefront's public products.json feed.
// The feed pages with limit/page query params and returns an empty products
// array past the last page, which is the stop signal.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"catalog-crawler-go/internal/config"
	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/logger"
	"catalog-crawler-go/internal/proxy"
	"catalog-crawler-go/internal/retailer"
	"catalog-crawler-go/internal/store"
)

const pageSize = 250

type Crawler struct {
	retrier *crawler.RequestRetrier
	baseURL string
}

func NewCrawler() *Crawler {
	pool, err := proxy.PoolFromConfig(context.Background())
	if err != nil {
		logger.Warn("proxy pool unavailable, continuing direct", "err", err)
		pool = proxy.NewPool(nil)
	}
	return &Crawler{
		retrier: crawler.NewRequestRetrier(pool),
		baseURL: strings.TrimRight(strings.TrimSpace(config.AppConfig.ShopifyBaseURL), "/"),
	}
}

func (c *Crawler) Run(ctx context.Context, req crawler.Request) (crawler.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req.Retailer = "shopify"
	if c.baseURL == "" {
		return crawler.Result{}, fmt.Errorf("shopify: SHOPIFY_BASE_URL is not set")
	}

	out := crawler.NewResult(req)
	opts := crawler.RetryOptionsFromConfig(config.AppConfig, req.Country)

	var products []store.Product
	for page := req.StartPage; ; page++ {
		batch, err := c.fetchPage(ctx, page, opts)
		if err != nil {
			logger.Error("shopify page fetch failed", "page", page,
				"error_kind", string(crawler.KindOf(err)), "err", err)
			out.FailureKinds = crawler.MergeFailureKinds(out.FailureKinds,
				map[string]int{string(crawler.KindOf(err)): 1})
			out.FinishedAt = time.Now().Unix()
			return out, err
		}
		if len(batch.Products) == 0 {
			break
		}
		logger.Info("shopify page fetched", "page", page, "products", len(batch.Products))
		for _, ap := range batch.Products {
			products = append(products, toProduct(ap, c.baseURL, req.Country))
		}
		if req.MaxProducts > 0 && len(products) >= req.MaxProducts {
			break
		}
		if req.Delay > 0 && !crawler.Sleep(ctx, req.Delay) {
			out.FinishedAt = time.Now().Unix()
			return out, ctx.Err()
		}
	}
	products = retailer.Truncate(products, req.MaxProducts)

	retailer.SaveAll(ctx, req, products, &out)
	si := store.StoreInfo{URL: c.baseURL, Currency: "USD"}
	if err := retailer.Finish(ctx, req, si, products); err != nil {
		out.FinishedAt = time.Now().Unix()
		return out, err
	}
	out.FinishedAt = time.Now().Unix()
	return out, nil
}

func (c *Crawler) fetchPage(ctx context.Context, page int, opts crawler.RunOptions) (productsPage, error) {
	url := fmt.Sprintf("%s/products.json?limit=%d&page=%d", c.baseURL, pageSize, page)
	resp, err := c.retrier.Run(ctx, func(ctx context.Context, client *resty.Client) (*resty.Response, error) {
		return client.R().SetContext(ctx).Get(url)
	}, opts)
	if err != nil {
		return productsPage{}, err
	}
	var out productsPage
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return productsPage{}, fmt.Errorf("shopify: decode page %d: %w", page, err)
	}
	return out, nil
}
