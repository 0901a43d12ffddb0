// Package walmart reads Walmart search results through the SerpApi walmart
// engine. The aggregator absorbs most anti-bot pressure, but its responses
// still ride the retrier so quota hiccups and upstream blocks retry the same
// way direct fetches do.
package walmart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"catalog-crawler-go/internal/cache"
	"catalog-crawler-go/internal/config"
	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/logger"
	"catalog-crawler-go/internal/proxy"
	"catalog-crawler-go/internal/retailer"
	"catalog-crawler-go/internal/store"
)

const searchEndpoint = "https://serpapi.com/search.json"

type Crawler struct {
	retrier *crawler.RequestRetrier
	cache   cache.Cache
	apiKey  string
	query   string
}

func NewCrawler() *Crawler {
	pool, err := proxy.PoolFromConfig(context.Background())
	if err != nil {
		logger.Warn("proxy pool unavailable, continuing direct", "err", err)
		pool = proxy.NewPool(nil)
	}
	return &Crawler{
		retrier: crawler.NewRequestRetrier(pool),
		cache:   cache.NewFromConfig(config.AppConfig),
		apiKey:  config.AppConfig.SerpApiKey,
		query:   config.AppConfig.WalmartQuery,
	}
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
	Pagination     struct {
		Next string `json:"next"`
	} `json:"serpapi_pagination"`
}

type organicResult struct {
	USItemID       string  `json:"us_item_id"`
	Title          string  `json:"title"`
	ProductPageURL string  `json:"product_page_url"`
	Thumbnail      string  `json:"thumbnail"`
	SellerName     string  `json:"seller_name"`
	PrimaryOffer   struct {
		OfferPrice float64 `json:"offer_price"`
		MinPrice   float64 `json:"min_price"`
	} `json:"primary_offer"`
	OutOfStock bool `json:"out_of_stock"`
}

func (c *Crawler) Run(ctx context.Context, req crawler.Request) (crawler.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req.Retailer = "walmart"
	if c.apiKey == "" {
		return crawler.Result{}, fmt.Errorf("walmart: SERPAPI_KEY is not set")
	}

	out := crawler.NewResult(req)
	opts := crawler.RetryOptionsFromConfig(config.AppConfig, req.Country)

	var products []store.Product
	for page := req.StartPage; ; page++ {
		sr, err := c.fetchPage(ctx, page, opts)
		if err != nil {
			logger.Error("walmart page fetch failed", "page", page,
				"error_kind", string(crawler.KindOf(err)), "err", err)
			out.FailureKinds = crawler.MergeFailureKinds(out.FailureKinds,
				map[string]int{string(crawler.KindOf(err)): 1})
			out.FinishedAt = time.Now().Unix()
			return out, err
		}
		if len(sr.OrganicResults) == 0 {
			break
		}
		logger.Info("walmart page fetched", "page", page, "results", len(sr.OrganicResults))
		for _, r := range sr.OrganicResults {
			products = append(products, toProduct(r, req.Country))
		}
		if req.MaxProducts > 0 && len(products) >= req.MaxProducts {
			break
		}
		if sr.Pagination.Next == "" {
			break
		}
		if req.Delay > 0 && !crawler.Sleep(ctx, req.Delay) {
			out.FinishedAt = time.Now().Unix()
			return out, ctx.Err()
		}
	}
	products = retailer.Truncate(products, req.MaxProducts)

	retailer.SaveAll(ctx, req, products, &out)
	si := store.StoreInfo{URL: "https://www.walmart.com", Currency: "USD"}
	if err := retailer.Finish(ctx, req, si, products); err != nil {
		out.FinishedAt = time.Now().Unix()
		return out, err
	}
	out.FinishedAt = time.Now().Unix()
	return out, nil
}

// fetchPage memoizes pages in the cache so an interrupted run re-fetches only
// what it never saw, which keeps SerpApi quota spend down.
func (c *Crawler) fetchPage(ctx context.Context, page int, opts crawler.RunOptions) (searchResponse, error) {
	cacheKey := fmt.Sprintf("walmart:search:%s:%d", c.query, page)
	if c.cache != nil {
		if b, ok, _ := c.cache.Get(ctx, cacheKey); ok {
			var cached searchResponse
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}

	q := url.Values{}
	q.Set("engine", "walmart")
	q.Set("query", c.query)
	q.Set("page", strconv.Itoa(page))
	q.Set("api_key", c.apiKey)
	reqURL := searchEndpoint + "?" + q.Encode()

	resp, err := c.retrier.Run(ctx, func(ctx context.Context, client *resty.Client) (*resty.Response, error) {
		return client.R().SetContext(ctx).Get(reqURL)
	}, opts)
	if err != nil {
		return searchResponse{}, err
	}

	var sr searchResponse
	if err := json.Unmarshal(resp.Body(), &sr); err != nil {
		return searchResponse{}, fmt.Errorf("walmart: decode page %d: %w", page, err)
	}
	if c.cache != nil {
		ttl := time.Duration(config.AppConfig.CacheDefaultTTLSec) * time.Second
		_ = c.cache.Set(ctx, cacheKey, resp.Body(), ttl)
	}
	return sr, nil
}

func toProduct(r organicResult, country string) store.Product {
	p := store.Product{
		ProductID: r.USItemID,
		Retailer:  "walmart",
		Country:   country,
		Title:     r.Title,
		Brand:     r.SellerName,
		URL:       r.ProductPageURL,
		ImageURL:  r.Thumbnail,
		Currency:  "USD",
		Price:     r.PrimaryOffer.OfferPrice,
		ListPrice: r.PrimaryOffer.MinPrice,
		Available: !r.OutOfStock,
	}
	if p.ProductID == "" {
		p.ProductID = r.ProductPageURL
	}
	return p
}
