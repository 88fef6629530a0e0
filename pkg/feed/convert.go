package feed

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/example/evoshop/pkg/models"
)

var categoryNames = map[string]string{
	"mens-shirts":      "Tops",
	"mens-shoes":       "Shoes",
	"mens-watches":     "Accessories",
	"womens-bags":      "Bags",
	"womens-dresses":   "Dresses",
	"womens-jewellery": "Accessories",
	"womens-shoes":     "Shoes",
	"womens-watches":   "Accessories",
	"sunglasses":       "Accessories",
	"tops":             "Tops",
}

func displayCategory(feedCategory string) string {
	if name, ok := categoryNames[feedCategory]; ok {
		return name
	}
	return "Other"
}

func genderFor(feedCategory string) models.Gender {
	switch {
	case strings.HasPrefix(feedCategory, "mens-"):
		return models.GenderMen
	case strings.HasPrefix(feedCategory, "womens-"), feedCategory == "womens", feedCategory == "tops":
		return models.GenderWomen
	default:
		return models.GenderUnisex
	}
}

// colorVariants turns the first few feed images into color-style variants so
// the storefront has something to render on the product page.
func colorVariants(p Product) []models.ProductColor {
	names := []string{"Default", "Alternate", "Variant"}
	hexes := []string{"#1a1a1a", "#8B4513", "#4A5568"}

	var colors []models.ProductColor
	for i, image := range p.Images {
		if i >= len(names) {
			break
		}
		colors = append(colors, models.ProductColor{Name: names[i], Hex: hexes[i], Image: image})
	}
	if len(colors) == 0 {
		colors = append(colors, models.ProductColor{Name: "Default", Hex: "#1a1a1a", Image: p.Thumbnail})
	}
	return colors
}

func sizesFor(feedCategory string) []models.ProductSize {
	var names []string
	switch {
	case strings.Contains(feedCategory, "shoes"):
		names = []string{"6", "7", "8", "9", "10", "11", "12"}
	case strings.Contains(feedCategory, "watches"),
		strings.Contains(feedCategory, "jewellery"),
		strings.Contains(feedCategory, "bags"),
		strings.Contains(feedCategory, "sunglasses"):
		names = []string{"One Size"}
	default:
		names = []string{"XS", "S", "M", "L", "XL"}
	}

	sizes := make([]models.ProductSize, len(names))
	for i, name := range names {
		sizes[i] = models.ProductSize{Name: name, InStock: true}
	}
	return sizes
}

// Convert maps a feed product onto the catalog document shape. The compare-at
// price is reconstructed from the feed's discount percentage.
func Convert(p Product) models.Product {
	var compareAt float64
	if p.DiscountPercentage > 0 && p.DiscountPercentage < 100 {
		compareAt = math.Round(p.Price * 100 / (100 - p.DiscountPercentage))
	}

	details := []string{}
	if p.Brand != "" {
		details = append(details, "Brand: "+p.Brand)
	}
	for _, d := range []string{p.WarrantyInfo, p.ShippingInfo, p.ReturnPolicy} {
		if d != "" {
			details = append(details, d)
		}
	}
	if p.Rating > 0 {
		details = append(details, fmt.Sprintf("Rating: %g/5", p.Rating))
	}

	return models.Product{
		Name:           p.Title,
		Slug:           models.Slugify(p.Title),
		Price:          math.Round(p.Price),
		CompareAtPrice: compareAt,
		Description:    p.Description,
		Details:        details,
		Category:       displayCategory(p.Category),
		Subcategory:    p.Category,
		Gender:         genderFor(p.Category),
		Colors:         colorVariants(p),
		Sizes:          sizesFor(p.Category),
		Images:         p.Images,
		Thumbnail:      p.Thumbnail,
		InStock:        p.Stock > 0,
		Quantity:       p.Stock,
		Tags:           p.Tags,
		Featured:       p.Rating >= 4.5,
		NewArrival:     p.Meta.CreatedAt.After(time.Now().AddDate(0, 0, -30)),
		BestSeller:     p.Rating >= 4.0 && p.Stock < 50,
	}
}
