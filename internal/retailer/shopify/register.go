package shopify

import (
	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/retailer"
)

func init() {
	retailer.Register("shopify", []string{"shop"}, func() crawler.Runner { return NewCrawler() })
}
