package catalog

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("product not found")

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
}

// NewProduct carries the caller-supplied fields of an insert. The store
// assigns the id.
type NewProduct struct {
	Name        string
	Description string
	Price       float64
	ImageURL    string
}

// Patch names the fields to overwrite. Unset fields keep their value. An
// empty Name or Description also keeps the current one, since the edit form
// posts every field; a set Price applies even when it is 0. A blank ImageURL
// keeps the current image.
type Patch struct {
	Name        Optional[string]
	Description Optional[string]
	Price       Optional[float64]
	ImageURL    Optional[string]
}

// Store is the authoritative product collection. Lookups return ErrNotFound
// for ids that are not stored.
type Store interface {
	Ping(ctx context.Context) error
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Insert(ctx context.Context, p NewProduct) (Product, error)
	PatchByID(ctx context.Context, id int64, p Patch) (Product, error)
	DeleteByID(ctx context.Context, id int64) error
	Len() int
}
