// Package adidas crawls adidas.com category listings through a real browser.
// The site sits behind aggressive bot detection, so every attempt runs in a
// fresh stealth-patched session and the rendered page is checked against the
// block indicators before any parsing happens.
package adidas

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

const viewSize = 48

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
		category: config.AppConfig.AdidasCategory,
	}
}

func (c *Crawler) Run(ctx context.Context, req crawler.Request) (crawler.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req.Retailer = "adidas"
	out := crawler.NewResult(req)
	opts := crawler.RetryOptionsFromConfig(config.AppConfig, req.Country)

	var products []store.Product
	start := (req.StartPage - 1) * viewSize
	for {
		state, err := c.fetchListing(ctx, start, opts)
		if err != nil {
			logger.Error("adidas listing fetch failed", "start", start,
				"error_kind", string(crawler.KindOf(err)), "err", err)
			out.FailureKinds = crawler.MergeFailureKinds(out.FailureKinds,
				map[string]int{string(crawler.KindOf(err)): 1})
			out.FinishedAt = time.Now().Unix()
			return out, err
		}
		items := state.PLP.ItemList.Items
		if len(items) == 0 {
			break
		}
		logger.Info("adidas listing fetched", "start", start,
			"items", len(items), "count", state.PLP.ItemList.Count)
		for _, it := range items {
			products = append(products, toProduct(it, req.Country))
		}
		start += len(items)
		if req.MaxProducts > 0 && len(products) >= req.MaxProducts {
			break
		}
		if state.PLP.ItemList.Count > 0 && start >= state.PLP.ItemList.Count {
			break
		}
		if req.Delay > 0 && !crawler.Sleep(ctx, req.Delay) {
			out.FinishedAt = time.Now().Unix()
			return out, ctx.Err()
		}
	}
	products = retailer.Truncate(products, req.MaxProducts)

	retailer.SaveAll(ctx, req, products, &out)
	si := store.StoreInfo{URL: "https://www.adidas.com", Currency: "USD"}
	if err := retailer.Finish(ctx, req, si, products); err != nil {
		out.FinishedAt = time.Now().Unix()
		return out, err
	}
	out.FinishedAt = time.Now().Unix()
	return out, nil
}

// fetchListing renders one grid page. A blocked render surfaces as a
// blocked-kind error so the retrier relaunches under a new proxy identity.
func (c *Crawler) fetchListing(ctx context.Context, start int, opts crawler.RunOptions) (dataStore, error) {
	url := fmt.Sprintf("https://www.adidas.com/us/%s?start=%d", c.category, start)

	var state dataStore
	err := c.retrier.Run(ctx, func(ctx context.Context, sess *browser.Session) error {
		page, err := sess.NewPage()
		if err != nil {
			return err
		}
		if _, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		}); err != nil {
			return crawler.Error{Kind: crawler.ErrorKindTransient, Retailer: "adidas", URL: url,
				Msg: "navigate listing", Err: err}
		}
		content, err := page.Content()
		if err != nil {
			return crawler.Error{Kind: crawler.ErrorKindTransient, Retailer: "adidas", URL: url,
				Msg: "read page content", Err: err}
		}
		if crawler.Classify(200, content) == crawler.ClassBlocked {
			return crawler.NewBlockedError("adidas", url, crawler.BlockReason(200, content))
		}
		if err := jsparse.UnmarshalState(content, "DATA_STORE", &state); err != nil {
			return crawler.Error{Kind: crawler.ErrorKindTransient, Retailer: "adidas", URL: url,
				Msg: "extract DATA_STORE", Err: err}
		}
		return nil
	}, opts)
	return state, err
}
