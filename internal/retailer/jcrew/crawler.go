// Package jcrew pages through J.Crew's Constructor.io browse API, the same
// endpoint the site's own category pages call.
package jcrew

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"catalog-crawler-go/internal/config"
	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/logger"
	"catalog-crawler-go/internal/proxy"
	"catalog-crawler-go/internal/retailer"
	"catalog-crawler-go/internal/store"
)

const (
	browseEndpoint = "https://ac.cnstrc.com/browse/group_id"
	resultsPerPage = 100
)

type Crawler struct {
	retrier  *crawler.RequestRetrier
	apiKey   string
	category string
}

func NewCrawler() *Crawler {
	pool, err := proxy.PoolFromConfig(context.Background())
	if err != nil {
		logger.Warn("proxy pool unavailable, continuing direct", "err", err)
		pool = proxy.NewPool(nil)
	}
	return &Crawler{
		retrier:  crawler.NewRequestRetrier(pool),
		apiKey:   config.AppConfig.ConstructorKey,
		category: config.AppConfig.JCrewCategory,
	}
}

type browseResponse struct {
	Response struct {
		Results      []browseResult `json:"results"`
		TotalResults int            `json:"total_num_results"`
	} `json:"response"`
}

type browseResult struct {
	Value string `json:"value"`
	Data  struct {
		ID          string  `json:"id"`
		URL         string  `json:"url"`
		ImageURL    string  `json:"image_url"`
		Price       float64 `json:"price"`
		SalePrice   float64 `json:"sale_price"`
		Brand       string  `json:"brand"`
		InStock     bool    `json:"in_stock"`
		VariationID string  `json:"variation_id"`
	} `json:"data"`
	Variations []struct {
		Data struct {
			VariationID string  `json:"variation_id"`
			Color       string  `json:"color"`
			Size        string  `json:"size"`
			Price       float64 `json:"price"`
			ImageURL    string  `json:"image_url"`
			InStock     bool    `json:"in_stock"`
		} `json:"data"`
	} `json:"variations"`
}

func (c *Crawler) Run(ctx context.Context, req crawler.Request) (crawler.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req.Retailer = "jcrew"
	if c.apiKey == "" {
		return crawler.Result{}, fmt.Errorf("jcrew: CONSTRUCTOR_KEY is not set")
	}

	out := crawler.NewResult(req)
	opts := crawler.RetryOptionsFromConfig(config.AppConfig, req.Country)

	var products []store.Product
	total := -1
	for page := req.StartPage; ; page++ {
		br, err := c.fetchPage(ctx, page, opts)
		if err != nil {
			logger.Error("jcrew page fetch failed", "page", page,
				"error_kind", string(crawler.KindOf(err)), "err", err)
			out.FailureKinds = crawler.MergeFailureKinds(out.FailureKinds,
				map[string]int{string(crawler.KindOf(err)): 1})
			out.FinishedAt = time.Now().Unix()
			return out, err
		}
		if total < 0 {
			total = br.Response.TotalResults
		}
		if len(br.Response.Results) == 0 {
			break
		}
		logger.Info("jcrew page fetched", "page", page,
			"results", len(br.Response.Results), "total", total)
		for _, r := range br.Response.Results {
			products = append(products, toProduct(r, req.Country))
		}
		if req.MaxProducts > 0 && len(products) >= req.MaxProducts {
			break
		}
		if len(products) >= total {
			break
		}
		if req.Delay > 0 && !crawler.Sleep(ctx, req.Delay) {
			out.FinishedAt = time.Now().Unix()
			return out, ctx.Err()
		}
	}
	products = retailer.Truncate(products, req.MaxProducts)

	retailer.SaveAll(ctx, req, products, &out)
	si := store.StoreInfo{URL: "https://www.jcrew.com", Currency: "USD"}
	if err := retailer.Finish(ctx, req, si, products); err != nil {
		out.FinishedAt = time.Now().Unix()
		return out, err
	}
	out.FinishedAt = time.Now().Unix()
	return out, nil
}

func (c *Crawler) fetchPage(ctx context.Context, page int, opts crawler.RunOptions) (browseResponse, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("page", strconv.Itoa(page))
	q.Set("num_results_per_page", strconv.Itoa(resultsPerPage))
	reqURL := fmt.Sprintf("%s/%s?%s", browseEndpoint, url.PathEscape(c.category), q.Encode())

	resp, err := c.retrier.Run(ctx, func(ctx context.Context, client *resty.Client) (*resty.Response, error) {
		return client.R().SetContext(ctx).Get(reqURL)
	}, opts)
	if err != nil {
		return browseResponse{}, err
	}
	var br browseResponse
	if err := json.Unmarshal(resp.Body(), &br); err != nil {
		return browseResponse{}, fmt.Errorf("jcrew: decode page %d: %w", page, err)
	}
	return br, nil
}

func toProduct(r browseResult, country string) store.Product {
	p := store.Product{
		ProductID: r.Data.ID,
		Retailer:  "jcrew",
		Country:   country,
		Title:     r.Value,
		Brand:     r.Data.Brand,
		URL:       r.Data.URL,
		ImageURL:  r.Data.ImageURL,
		Currency:  "USD",
		Price:     r.Data.Price,
		ListPrice: r.Data.SalePrice,
		Available: r.Data.InStock,
	}
	if p.Brand == "" {
		p.Brand = "J.Crew"
	}
	for _, v := range r.Variations {
		p.Variants = append(p.Variants, store.Variant{
			VariantID: v.Data.VariationID,
			Color:     v.Data.Color,
			Size:      v.Data.Size,
			Price:     v.Data.Price,
			ImageURL:  v.Data.ImageURL,
			Available: v.Data.InStock,
		})
		if v.Data.InStock {
			p.Available = true
		}
	}
	return p
}
