package jcrew

import (
	"encoding/json"
	"testing"
)

const browseSample = `{
  "response": {
    "total_num_results": 1,
    "results": [
      {
        "value": "Broken-in Organic Cotton Oxford Shirt",
        "data": {
          "id": "BM123",
          "url": "https://www.jcrew.com/p/BM123",
          "image_url": "https://www.jcrew.com/s7-img/BM123.jpg",
          "price": 89.5,
          "sale_price": 49.99,
          "in_stock": false
        },
        "variations": [
          {"data": {"variation_id": "BM123-WHT-M", "color": "White", "size": "M", "price": 49.99, "in_stock": true}},
          {"data": {"variation_id": "BM123-WHT-L", "color": "White", "size": "L", "price": 49.99, "in_stock": false}}
        ]
      }
    ]
  }
}`

func TestToProduct(t *testing.T) {
	var br browseResponse
	if err := json.Unmarshal([]byte(browseSample), &br); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if br.Response.TotalResults != 1 || len(br.Response.Results) != 1 {
		t.Fatalf("response=%+v", br.Response)
	}

	p := toProduct(br.Response.Results[0], "US")
	if p.ProductID != "BM123" || p.Retailer != "jcrew" {
		t.Fatalf("product=%+v", p)
	}
	if p.Brand != "J.Crew" {
		t.Fatalf("brand=%s", p.Brand)
	}
	if len(p.Variants) != 2 || p.Variants[0].Size != "M" {
		t.Fatalf("variants=%+v", p.Variants)
	}
	// product itself reported out of stock, but one variant is purchasable
	if !p.Available {
		t.Fatalf("available=false with in-stock variant")
	}
}
