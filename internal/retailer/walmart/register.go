package walmart

import (
	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/retailer"
)

func init() {
	retailer.Register("walmart", []string{"wm"}, func() crawler.Runner { return NewCrawler() })
}
