package crawler

import (
	"strings"
	"time"

	"catalog-crawler-go/internal/config"
)

func RequestFromConfig(cfg config.Config) Request {
	delay := time.Duration(cfg.CrawlerDelayMs) * time.Millisecond
	if delay <= 0 {
		delay = 800 * time.Millisecond
	}
	startPage := cfg.StartPage
	if startPage < 1 {
		startPage = 1
	}
	return Request{
		Retailer:    strings.TrimSpace(cfg.Retailer),
		Country:     config.GetCountry(),
		StartPage:   startPage,
		MaxProducts: cfg.MaxProducts,
		Delay:       delay,
	}
}

// RetryOptionsFromConfig maps the retry knobs into RunOptions for the
// requested region.
func RetryOptionsFromConfig(cfg config.Config, region string) RunOptions {
	return RunOptions{
		MaxAttempts: cfg.MaxAttempts,
		BaseDelay:   time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond,
		Region:      region,
	}
}
