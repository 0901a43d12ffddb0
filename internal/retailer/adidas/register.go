package adidas

import (
	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/retailer"
)

func init() {
	retailer.Register("adidas", nil, func() crawler.Runner { return NewCrawler() })
}
