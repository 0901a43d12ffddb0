package adidas

import (
	"catalog-crawler-go/internal/store"
)

// dataStore mirrors the slice of window.DATA_STORE the listing pages render
// server-side. Only the product grid subtree is decoded.
type dataStore struct {
	PLP struct {
		ItemList struct {
			Items      []plpItem `json:"items"`
			Count      int       `json:"count"`
			StartIndex int       `json:"startIndex"`
			ViewSize   int       `json:"viewSize"`
		} `json:"itemList"`
	} `json:"plp"`
}

type plpItem struct {
	ProductID   string  `json:"productId"`
	DisplayName string  `json:"displayName"`
	Division    string  `json:"division"`
	Price       float64 `json:"price"`
	SalePrice   float64 `json:"salePrice"`
	Link        string  `json:"link"`
	Image       struct {
		Src string `json:"src"`
	} `json:"image"`
	ColorVariations []string `json:"colorVariations"`
}

func toProduct(it plpItem, country string) store.Product {
	p := store.Product{
		ProductID: it.ProductID,
		Retailer:  "adidas",
		Country:   country,
		Title:     it.DisplayName,
		Brand:     "adidas",
		Category:  it.Division,
		URL:       absoluteLink(it.Link),
		ImageURL:  it.Image.Src,
		Currency:  "USD",
		Price:     it.SalePrice,
		ListPrice: it.Price,
		Available: true,
	}
	if p.Price == 0 {
		p.Price = it.Price
	}
	for _, color := range it.ColorVariations {
		p.Variants = append(p.Variants, store.Variant{
			VariantID: color,
			Color:     color,
			Available: true,
		})
	}
	return p
}

func absoluteLink(link string) string {
	if link == "" {
		return ""
	}
	if link[0] == '/' {
		return "https://www.adidas.com" + link
	}
	return link
}
