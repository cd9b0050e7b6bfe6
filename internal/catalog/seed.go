package catalog

import (
	"bytes"
	"fmt"
	"math/rand"

	"gopkg.in/yaml.v3"

	"github.com/utafrali/storefront/internal/domain"
)

type seedCategory struct {
	name   string
	nouns  []string
	images []string
}

var seedCategories = []seedCategory{
	{
		name:  "Audio",
		nouns: []string{"Headphones", "Speaker", "Earbuds", "Soundbar", "Turntable"},
		images: []string{
			"https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=600",
			"https://images.unsplash.com/photo-1608156639585-b3a032ef9689?w=600",
		},
	},
	{
		name:  "Wearables",
		nouns: []string{"Smartwatch", "Fitness Band", "Smart Ring", "VR Headset"},
		images: []string{
			"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=600",
		},
	},
	{
		name:  "Computing",
		nouns: []string{"Wireless Mouse", "Keypad", "Webcam", "USB Hub", "Monitor Arm"},
		images: []string{
			"https://images.unsplash.com/photo-1527814732934-7634356e9c0c?w=600",
			"https://images.unsplash.com/photo-1511467687858-23d96c32e4ae?w=600",
		},
	},
}

var seedAdjectives = []string{
	"Studio", "Titan", "Swift", "Aero", "Nova", "Pulse", "Glow", "Echo", "Zen", "Vertex",
}

// Generate builds n deterministic demo products. The same seed always yields
// the same catalog. Prices are whole dollars or end in .99, between $9 and $499.
func Generate(n int, seed int64) []domain.Product {
	rng := rand.New(rand.NewSource(seed))

	products := make([]domain.Product, 0, n)
	for i := 0; i < n; i++ {
		cat := seedCategories[rng.Intn(len(seedCategories))]
		noun := cat.nouns[rng.Intn(len(cat.nouns))]
		adj := seedAdjectives[rng.Intn(len(seedAdjectives))]

		price := domain.Dollars(int64(9 + rng.Intn(491)))
		if rng.Intn(2) == 0 {
			price -= 1
		}

		products = append(products, domain.Product{
			ID:       i + 1,
			Name:     fmt.Sprintf("%s %s %d", adj, noun, i+1),
			Price:    price,
			Category: cat.name,
			Image:    cat.images[rng.Intn(len(cat.images))],
		})
	}
	return products
}

// Marshal encodes products as a YAML catalog document that Parse accepts.
func Marshal(products []domain.Product) ([]byte, error) {
	doc := document{Products: make([]record, 0, len(products))}
	for _, p := range products {
		doc.Products = append(doc.Products, record{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price.Decimal().String(),
			Category: p.Category,
			Image:    p.Image,
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}
