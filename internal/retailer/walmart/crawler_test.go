package walmart

import (
	"encoding/json"
	"testing"
)

const serpSample = `{
  "organic_results": [
    {
      "us_item_id": "55443322",
      "title": "Everyday Crew Socks 6-Pack",
      "product_page_url": "https://www.walmart.com/ip/55443322",
      "thumbnail": "https://i5.walmartimages.com/socks.jpg",
      "seller_name": "Walmart.com",
      "primary_offer": {"offer_price": 9.98, "min_price": 7.5},
      "out_of_stock": false
    },
    {
      "us_item_id": "11223344",
      "title": "Fleece Hoodie",
      "product_page_url": "https://www.walmart.com/ip/11223344",
      "primary_offer": {"offer_price": 24.0},
      "out_of_stock": true
    }
  ],
  "serpapi_pagination": {"next": "https://serpapi.com/search.json?page=2"}
}`

func TestToProduct(t *testing.T) {
	var sr searchResponse
	if err := json.Unmarshal([]byte(serpSample), &sr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sr.OrganicResults) != 2 {
		t.Fatalf("results=%d", len(sr.OrganicResults))
	}
	if sr.Pagination.Next == "" {
		t.Fatalf("pagination not decoded")
	}

	p := toProduct(sr.OrganicResults[0], "US")
	if p.ProductID != "55443322" || p.Retailer != "walmart" || p.Country != "US" {
		t.Fatalf("product=%+v", p)
	}
	if p.Price != 9.98 || !p.Available {
		t.Fatalf("price=%v available=%v", p.Price, p.Available)
	}

	oos := toProduct(sr.OrganicResults[1], "US")
	if oos.Available {
		t.Fatalf("out_of_stock item marked available")
	}
}
