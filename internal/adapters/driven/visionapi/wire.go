package visionapi

import "github.com/custodia-labs/snapshop/internal/core/domain"

// Wire types mirror the AI service's product schema, which nests pricing
// under price.marked/price.effective. The domain model flattens that
// nesting, so indexing payloads are rebuilt here.

type wireProduct struct {
	Name             string      `json:"name"`
	Slug             string      `json:"slug"`
	Description      string      `json:"description"`
	ShortDescription string      `json:"short_description"`
	CategorySlug     string      `json:"category_slug"`
	Brand            string      `json:"brand"`
	Media            []wireMedia `json:"media"`
	AllSizes         []wireSize  `json:"all_sizes"`
}

type wireMedia struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type wireSize struct {
	Size     string    `json:"size"`
	Price    wirePrice `json:"price"`
	Sellable bool      `json:"sellable"`
}

type wirePrice struct {
	Marked    wireRange `json:"marked"`
	Effective wireRange `json:"effective"`
}

type wireRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// toWire converts normalized catalog items to the upstream schema.
// Empty slices stay empty slices so the payload never carries null arrays.
func toWire(items []domain.CatalogItem) []wireProduct {
	products := make([]wireProduct, len(items))
	for i, item := range items {
		media := make([]wireMedia, len(item.Media))
		for j, m := range item.Media {
			media[j] = wireMedia{URL: m.URL, Type: m.Type}
		}

		sizes := make([]wireSize, len(item.Sizes))
		for j, s := range item.Sizes {
			sizes[j] = wireSize{
				Size: s.Size,
				Price: wirePrice{
					Marked:    wireRange{Min: s.MarkedPrice.Min, Max: s.MarkedPrice.Max},
					Effective: wireRange{Min: s.Effective.Min, Max: s.Effective.Max},
				},
				Sellable: s.Sellable,
			}
		}

		products[i] = wireProduct{
			Name:             item.Name,
			Slug:             item.Slug,
			Description:      item.Description,
			ShortDescription: item.ShortDescription,
			CategorySlug:     item.CategorySlug,
			Brand:            item.BrandName,
			Media:            media,
			AllSizes:         sizes,
		}
	}
	return products
}
