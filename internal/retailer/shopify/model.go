package shopify

import (
	"strconv"
	"strings"

	"catalog-crawler-go/internal/store"
)

// productsPage is one page of the storefront products.json feed.
type productsPage struct {
	Products []apiProduct `json:"products"`
}

type apiProduct struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Handle      string       `json:"handle"`
	Vendor      string       `json:"vendor"`
	ProductType string       `json:"product_type"`
	Variants    []apiVariant `json:"variants"`
	Images      []apiImage   `json:"images"`
}

type apiVariant struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	SKU       string `json:"sku"`
	Price     string `json:"price"`
	CompareAt string `json:"compare_at_price"`
	Available bool   `json:"available"`
	Option1   string `json:"option1"`
	Option2   string `json:"option2"`
}

type apiImage struct {
	Src string `json:"src"`
}

// toProduct normalizes one feed entry. Prices arrive as strings; a variant
// that fails to parse keeps a zero price rather than dropping the product.
func toProduct(ap apiProduct, baseURL, country string) store.Product {
	p := store.Product{
		ProductID: strconv.FormatInt(ap.ID, 10),
		Retailer:  "shopify",
		Country:   country,
		Title:     ap.Title,
		Brand:     ap.Vendor,
		Category:  ap.ProductType,
		URL:       strings.TrimRight(baseURL, "/") + "/products/" + ap.Handle,
	}
	if len(ap.Images) > 0 {
		p.ImageURL = ap.Images[0].Src
	}
	for _, av := range ap.Variants {
		v := store.Variant{
			VariantID: strconv.FormatInt(av.ID, 10),
			Title:     av.Title,
			SKU:       av.SKU,
			Size:      av.Option1,
			Color:     av.Option2,
			Available: av.Available,
		}
		v.Price, _ = strconv.ParseFloat(av.Price, 64)
		v.ListPrice, _ = strconv.ParseFloat(av.CompareAt, 64)
		p.Variants = append(p.Variants, v)
		if av.Available {
			p.Available = true
		}
	}
	if len(p.Variants) > 0 {
		p.Price = p.Variants[0].Price
		p.ListPrice = p.Variants[0].ListPrice
	}
	return p
}
