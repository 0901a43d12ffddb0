package store

// Variant is one purchasable variation of a product (size, color, width).
type Variant struct {
	VariantID string  `json:"variant_id" bson:"variant_id"`
	Title     string  `json:"title,omitempty" bson:"title,omitempty"`
	SKU       string  `json:"sku,omitempty" bson:"sku,omitempty"`
	Color     string  `json:"color,omitempty" bson:"color,omitempty"`
	Size      string  `json:"size,omitempty" bson:"size,omitempty"`
	Price     float64 `json:"price,omitempty" bson:"price,omitempty"`
	ListPrice float64 `json:"list_price,omitempty" bson:"list_price,omitempty"`
	Available bool    `json:"available" bson:"available"`
	ImageURL  string  `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

// Product is the retailer-agnostic record every crawler normalizes into.
type Product struct {
	ProductID string    `json:"product_id" bson:"product_id"`
	Retailer  string    `json:"retailer" bson:"retailer"`
	Country   string    `json:"country,omitempty" bson:"country,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Brand     string    `json:"brand,omitempty" bson:"brand,omitempty"`
	Category  string    `json:"category,omitempty" bson:"category,omitempty"`
	URL       string    `json:"url,omitempty" bson:"url,omitempty"`
	ImageURL  string    `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Currency  string    `json:"currency,omitempty" bson:"currency,omitempty"`
	Price     float64   `json:"price,omitempty" bson:"price,omitempty"`
	ListPrice float64   `json:"list_price,omitempty" bson:"list_price,omitempty"`
	Available bool      `json:"available" bson:"available"`
	Variants  []Variant `json:"variants,omitempty" bson:"variants,omitempty"`
	FetchedAt int64     `json:"fetched_at,omitempty" bson:"fetched_at,omitempty"`
}

// StoreInfo heads each emitted catalog: one record per retailer+country run.
type StoreInfo struct {
	Retailer     string `json:"retailer" bson:"retailer"`
	Country      string `json:"country" bson:"country"`
	URL          string `json:"url,omitempty" bson:"url,omitempty"`
	Currency     string `json:"currency,omitempty" bson:"currency,omitempty"`
	ProductCount int    `json:"product_count" bson:"product_count"`
	CrawledAt    int64  `json:"crawled_at" bson:"crawled_at"`
}
