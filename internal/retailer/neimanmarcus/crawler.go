// Package neimanmarcus crawls neimanmarcus.com category pages in a browser
// session. Listing data is server-rendered into window.__PRELOADED_STATE__;
// the grid paginates with a page query param.
package neimanmarcus

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"catalog-crawler-go/internal/browser"
	"catalog-crawler-go/internal/config"
	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/jsparse"
	"catalog-crawler-go/internal/logger"
	"catalog-crawler-go/internal/proxy"
	"catalog-crawler-go/internal/retailer"
	"catalog-crawler-go/internal/store"
)

type Crawler struct {
	retrier  *browser.SessionRetrier
	category string
}

func NewCrawler() *Crawler {
	pool, err := proxy.PoolFromConfig(context.Background())
	if err != nil {
		logger.Warn("proxy pool unavailable, continuing direct", "err", err)
		pool = proxy.NewPool(nil)
	}
	return &Crawler{
		retrier:  browser.NewSessionRetrier(pool, browser.NewPlaywrightLauncher()),
		category: config.AppConfig.NeimanCategory,
	}
}

// preloadedState mirrors the product list slice of __PRELOADED_STATE__.
type preloadedState struct {
	ProductListPage struct {
		Products []nmProduct `json:"products"`
		Total    int         `json:"totalProducts"`
		Page     int         `json:"page"`
	} `json:"productListPage"`
}

type nmProduct struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Designer struct {
		Name string `json:"name"`
	} `json:"designer"`
	URL   string `json:"canonicalUrl"`
	Media struct {
		Main struct {
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"main"`
	} `json:"media"`
	Price struct {
		RetailPrice    float64 `json:"retailPrice"`
		PromotionPrice float64 `json:"promotionalPrice"`
		CurrencyCode   string  `json:"currencyCode"`
	} `json:"price"`
	InStock bool `json:"displayable"`
}

func (c *Crawler) Run(ctx context.Context, req crawler.Request) (crawler.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req.Retailer = "neimanmarcus"
	out := crawler.NewResult(req)
	opts := crawler.RetryOptionsFromConfig(config.AppConfig, req.Country)

	var products []store.Product
	for page := req.StartPage; ; page++ {
		state, err := c.fetchListing(ctx, page, opts)
		if err != nil {
			logger.Error("neimanmarcus listing fetch failed", "page", page,
				"error_kind", string(crawler.KindOf(err)), "err", err)
			out.FailureKinds = crawler.MergeFailureKinds(out.FailureKinds,
				map[string]int{string(crawler.KindOf(err)): 1})
			out.FinishedAt = time.Now().Unix()
			return out, err
		}
		items := state.ProductListPage.Products
		if len(items) == 0 {
			break
		}
		logger.Info("neimanmarcus listing fetched", "page", page,
			"items", len(items), "total", state.ProductListPage.Total)
		for _, it := range items {
			products = append(products, toProduct(it, req.Country))
		}
		if req.MaxProducts > 0 && len(products) >= req.MaxProducts {
			break
		}
		if state.ProductListPage.Total > 0 && len(products) >= state.ProductListPage.Total {
			break
		}
		if req.Delay > 0 && !crawler.Sleep(ctx, req.Delay) {
			out.FinishedAt = time.Now().Unix()
			return out, ctx.Err()
		}
	}
	products = retailer.Truncate(products, req.MaxProducts)

	retailer.SaveAll(ctx, req, products, &out)
	si := store.StoreInfo{URL: "https://www.neimanmarcus.com", Currency: "USD"}
	if err := retailer.Finish(ctx, req, si, products); err != nil {
		out.FinishedAt = time.Now().Unix()
		return out, err
	}
	out.FinishedAt = time.Now().Unix()
	return out, nil
}

func (c *Crawler) fetchListing(ctx context.Context, page int, opts crawler.RunOptions) (preloadedState, error) {
	url := fmt.Sprintf("https://www.neimanmarcus.com/c/%s?page=%d", c.category, page)

	var state preloadedState
	err := c.retrier.Run(ctx, func(ctx context.Context, sess *browser.Session) error {
		pg, err := sess.NewPage()
		if err != nil {
			return err
		}
		if _, err := pg.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		}); err != nil {
			return crawler.Error{Kind: crawler.ErrorKindTransient, Retailer: "neimanmarcus", URL: url,
				Msg: "navigate listing", Err: err}
		}
		content, err := pg.Content()
		if err != nil {
			return crawler.Error{Kind: crawler.ErrorKindTransient, Retailer: "neimanmarcus", URL: url,
				Msg: "read page content", Err: err}
		}
		if crawler.Classify(200, content) == crawler.ClassBlocked {
			return crawler.NewBlockedError("neimanmarcus", url, crawler.BlockReason(200, content))
		}
		if err := jsparse.UnmarshalState(content, "__PRELOADED_STATE__", &state); err != nil {
			return crawler.Error{Kind: crawler.ErrorKindTransient, Retailer: "neimanmarcus", URL: url,
				Msg: "extract preloaded state", Err: err}
		}
		return nil
	}, opts)
	return state, err
}

func toProduct(it nmProduct, country string) store.Product {
	p := store.Product{
		ProductID: it.ID,
		Retailer:  "neimanmarcus",
		Country:   country,
		Title:     it.Name,
		Brand:     it.Designer.Name,
		URL:       it.URL,
		ImageURL:  it.Media.Main.Medium.URL,
		Currency:  it.Price.CurrencyCode,
		Price:     it.Price.PromotionPrice,
		ListPrice: it.Price.RetailPrice,
		Available: it.InStock,
	}
	if p.Price == 0 {
		p.Price = it.Price.RetailPrice
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.URL != "" && p.URL[0] == '/' {
		p.URL = "https://www.neimanmarcus.com" + p.URL
	}
	return p
}
