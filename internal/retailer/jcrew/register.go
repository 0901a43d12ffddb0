package jcrew

import (
	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/retailer"
)

func init() {
	retailer.Register("jcrew", []string{"j.crew"}, func() crawler.Runner { return NewCrawler() })
}
