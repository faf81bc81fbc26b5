package catalog

import (
	"fmt"
	"math/rand/v2"
)

const (
	DefaultPlaceholderBaseURL = "https://picsum.photos/200/200"
	DefaultPlaceholderMax     = 1000
)

// ImageProvider supplies an image reference for products that have none.
type ImageProvider interface {
	PlaceholderURL() string
}

type ImageProviderFunc func() string

func (f ImageProviderFunc) PlaceholderURL() string { return f() }

// Picsum points at a random picsum.photos image. The query parameter only
// defeats browser caching; picsum picks the picture itself.
type Picsum struct {
	BaseURL string
	Max     int
}

func (p Picsum) PlaceholderURL() string {
	base, limit := p.BaseURL, p.Max
	if base == "" {
		base = DefaultPlaceholderBaseURL
	}
	if limit <= 0 {
		limit = DefaultPlaceholderMax
	}
	return fmt.Sprintf("%s?random=%d", base, rand.IntN(limit))
}
