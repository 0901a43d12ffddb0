package retailer

import (
	"context"
	"testing"

	"catalog-crawler-go/internal/crawler"
)

type nopRunner struct{}

func (nopRunner) Run(ctx context.Context, req crawler.Request) (crawler.Result, error) {
	return crawler.Result{}, nil
}

func TestRegisterAndNew(t *testing.T) {
	Register("test-retailer", []string{"tr", " Test-Alias "}, func() crawler.Runner { return nopRunner{} })

	for _, name := range []string{"test-retailer", "TR", "test-alias"} {
		if !Exists(name) {
			t.Fatalf("Exists(%q)=false", name)
		}
		r, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if _, ok := r.(nopRunner); !ok {
			t.Fatalf("New(%q) wrong type %T", name, r)
		}
	}
}

func TestNewUnknown(t *testing.T) {
	if _, err := New("sears"); err == nil {
		t.Fatalf("unknown retailer accepted")
	}
	if Exists("sears") {
		t.Fatalf("Exists(sears)=true")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("duplicate register did not panic")
		}
	}()
	Register("dup-retailer", nil, func() crawler.Runner { return nopRunner{} })
	Register("dup-retailer", nil, func() crawler.Runner { return nopRunner{} })
}
