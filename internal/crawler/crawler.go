package crawler

import (
	"context"
	"time"
)

// Request describes one catalog crawl run for a single retailer and country.
type Request struct {
	Retailer string
	Country  string

	StartPage   int
	MaxProducts int

	// Delay inserted between sequential product operations.
	Delay time.Duration
}

type Result struct {
	Retailer     string         `json:"retailer,omitempty"`
	Country      string         `json:"country,omitempty"`
	StartedAt    int64          `json:"started_at,omitempty"`
	FinishedAt   int64          `json:"finished_at,omitempty"`
	Processed    int            `json:"processed,omitempty"`
	Succeeded    int            `json:"succeeded,omitempty"`
	Failed       int            `json:"failed,omitempty"`
	FailureKinds map[string]int `json:"failure_kinds,omitempty"`
}

func NewResult(req Request) Result {
	return Result{
		Retailer:  req.Retailer,
		Country:   req.Country,
		StartedAt: time.Now().Unix(),
	}
}

type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}
