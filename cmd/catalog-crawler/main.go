package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"catalog-crawler-go/internal/config"
	"catalog-crawler-go/internal/crawler"
	"catalog-crawler-go/internal/logger"
	"catalog-crawler-go/internal/retailer"
	_ "catalog-crawler-go/internal/retailer/adidas"
	_ "catalog-crawler-go/internal/retailer/jcrew"
	_ "catalog-crawler-go/internal/retailer/neimanmarcus"
	_ "catalog-crawler-go/internal/retailer/shopify"
	_ "catalog-crawler-go/internal/retailer/walmart"
	"catalog-crawler-go/internal/store"
)

func main() {
	configPath := flag.String("config", ".", "path to config file")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.InitFromConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.Init(ctx); err != nil {
		logger.Error("store init failed", "backend", config.AppConfig.StoreBackend, "err", err)
		os.Exit(1)
	}

	logger.Info("starting crawler",
		"retailer", config.AppConfig.Retailer, "country", config.GetCountry())

	r, err := retailer.New(config.AppConfig.Retailer)
	if err != nil {
		logger.Error("crawler init failed", "err", err)
		os.Exit(1)
	}

	req := crawler.RequestFromConfig(config.AppConfig)
	res, err := r.Run(ctx, req)
	if err != nil {
		logger.Error("crawler failed", "err", err,
			"error_kind", string(crawler.KindOf(err)), "blocked", crawler.IsBlocked(err),
			"exhausted", crawler.IsExhausted(err),
			"retailer", res.Retailer, "country", res.Country,
			"processed", res.Processed, "succeeded", res.Succeeded,
			"failed", res.Failed, "failure_kinds", res.FailureKinds)
		os.Exit(1)
	}

	logger.Info("crawler finished successfully",
		"retailer", res.Retailer, "country", res.Country,
		"processed", res.Processed, "succeeded", res.Succeeded,
		"failed", res.Failed, "failure_kinds", res.FailureKinds)
}
