package shopify

import (
	"encoding/json"
	"testing"
)

const feedSample = `{
  "products": [
    {
      "id": 7234,
      "title": "Linen Camp Shirt",
      "handle": "linen-camp-shirt",
      "vendor": "Everfield",
      "product_type": "Shirts",
      "variants": [
        {"id": 1, "title": "S / Olive", "sku": "LCS-S-OL", "price": "68.00", "compare_at_price": "85.00", "available": true, "option1": "S", "option2": "Olive"},
        {"id": 2, "title": "M / Olive", "sku": "LCS-M-OL", "price": "68.00", "available": false, "option1": "M", "option2": "Olive"}
      ],
      "images": [{"src": "https://cdn.example.com/lcs-olive.jpg"}]
    }
  ]
}`

func TestToProduct(t *testing.T) {
	var page productsPage
	if err := json.Unmarshal([]byte(feedSample), &page); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if len(page.Products) != 1 {
		t.Fatalf("products=%d", len(page.Products))
	}

	p := toProduct(page.Products[0], "https://shop.example.com/", "US")
	if p.ProductID != "7234" {
		t.Fatalf("id=%s", p.ProductID)
	}
	if p.Retailer != "shopify" || p.Country != "US" {
		t.Fatalf("retailer=%s country=%s", p.Retailer, p.Country)
	}
	if p.URL != "https://shop.example.com/products/linen-camp-shirt" {
		t.Fatalf("url=%s", p.URL)
	}
	if p.ImageURL != "https://cdn.example.com/lcs-olive.jpg" {
		t.Fatalf("image=%s", p.ImageURL)
	}
	if len(p.Variants) != 2 {
		t.Fatalf("variants=%d", len(p.Variants))
	}
	v := p.Variants[0]
	if v.Price != 68 || v.ListPrice != 85 || v.Size != "S" || v.Color != "Olive" || !v.Available {
		t.Fatalf("variant=%+v", v)
	}
	if !p.Available {
		t.Fatalf("product with an in-stock variant marked unavailable")
	}
	if p.Price != 68 {
		t.Fatalf("price=%v", p.Price)
	}
}

func TestToProductBadPrice(t *testing.T) {
	ap := apiProduct{
		ID:    1,
		Title: "Tee",
		Variants: []apiVariant{
			{ID: 10, Price: "not-a-number", Available: true},
		},
	}
	p := toProduct(ap, "https://shop.example.com", "US")
	if len(p.Variants) != 1 {
		t.Fatalf("variant dropped on bad price")
	}
	if p.Variants[0].Price != 0 {
		t.Fatalf("price=%v", p.Variants[0].Price)
	}
}
