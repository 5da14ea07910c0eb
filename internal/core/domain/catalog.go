package domain

// CatalogItem is the normalized product record produced by the catalog store.
// It is immutable once read within a single operation; optional fields are
// always empty strings or empty slices, never nil-laden nested structures.
type CatalogItem struct {
	// Slug is the unique product key.
	Slug string `json:"slug"`

	// Name is the display name.
	Name string `json:"name"`

	// Description is the full product description.
	Description string `json:"description"`

	// ShortDescription is the one-line summary.
	ShortDescription string `json:"short_description"`

	// CategorySlug identifies the product category.
	CategorySlug string `json:"category_slug"`

	// BrandName is the flattened brand name.
	BrandName string `json:"brand"`

	// Media is the ordered list of product media assets.
	Media []Media `json:"media"`

	// Sizes is the ordered list of purchasable sizes with pricing.
	Sizes []Size `json:"all_sizes"`
}

// Media is a single product media asset.
type Media struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Size is one purchasable size variant with its price range.
type Size struct {
	Size        string     `json:"size"`
	MarkedPrice PriceRange `json:"marked_price"`
	Effective   PriceRange `json:"effective_price"`
	Sellable    bool       `json:"sellable"`
}

// PriceRange is a min/max price band as stored in the catalog.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
