package neimanmarcus

import (
	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/retailer"
)

func init() {
	retailer.Register("neimanmarcus", []string{"nm", "neiman"}, func() crawler.Runner { return NewCrawler() })
}
