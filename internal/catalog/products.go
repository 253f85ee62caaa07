package catalog

import "server/internal/domain"

// DefaultProducts is the merchandise line sold by the storefront.
var DefaultProducts = []domain.Product{
	{ID: 1, Name: "The Natural - Vintage Tee", Price: 45.00, ImageURL: "https://placehold.co/600x600/1a202c/e53e3e?text=Fighter+Tee", Category: "Apparel"},
	{ID: 2, Name: "Signature Series Hoodie", Price: 75.00, ImageURL: "https://placehold.co/600x600/1a202c/e53e3e?text=Fighter+Hoodie", Category: "Apparel"},
	{ID: 3, Name: "Championship Legacy Hat", Price: 35.00, ImageURL: "https://placehold.co/600x600/1a202c/e53e3e?text=Fighter+Hat", Category: "Accessories"},
	{ID: 4, Name: "Signed Fight Poster (Limited Edition)", Price: 150.00, ImageURL: "https://placehold.co/600x600/1a202c/e53e3e?text=Signed+Poster", Category: "Collectibles"},
	{ID: 5, Name: "Iron Will Training Shorts", Price: 55.00, ImageURL: "https://placehold.co/600x600/1a202c/e53e3e?text=Training+Shorts", Category: "Apparel"},
	{ID: 6, Name: "Victory Rashguard", Price: 60.00, ImageURL: "https://placehold.co/600x600/1a202c/e53e3e?text=Rashguard", Category: "Apparel"},
	{ID: 7, Name: "Autographed Fighting Glove", Price: 250.00, ImageURL: "https://placehold.co/600x600/1a202c/e53e3e?text=Signed+Glove", Category: "Collectibles"},
	{ID: 8, Name: "Fighter Crest Mug", Price: 20.00, ImageURL: "https://placehold.co/600x600/1a202c/e53e3e?text=Fighter+Mug", Category: "Accessories"},
}

// WeightClasses is the closed set of divisions accepted by the coach form.
var WeightClasses = []string{
	"Flyweight",
	"Bantamweight",
	"Featherweight",
	"Lightweight",
	"Welterweight",
	"Middleweight",
	"Light Heavyweight",
	"Heavyweight",
	"Strawweight (Women's)",
	"Flyweight (Women's)",
	"Bantamweight (Women's)",
	"Featherweight (Women's)",
}

// DefaultFighterName pre-fills the subject input.
const DefaultFighterName = "The Natural"

// DefaultWeightClass pre-selects Lightweight.
const DefaultWeightClass = "Lightweight"

// IsWeightClass reports whether the given label is one of the twelve
// supported divisions.
func IsWeightClass(label string) bool {
	for _, wc := range WeightClasses {
		if wc == label {
			return true
		}
	}
	return false
}
