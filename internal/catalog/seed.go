package catalog

// SampleProducts is the catalog a fresh process starts with. Images are left
// empty so every listing shows a placeholder.
func SampleProducts() []Product {
	return []Product{
		{ID: 1, Name: "Product 1", Description: "description 1", Price: 100},
		{ID: 2, Name: "Product 2", Description: "description 2", Price: 200},
		{ID: 3, Name: "Product 3", Description: "description 3", Price: 300},
		{ID: 4, Name: "Product 4", Description: "description 4", Price: 150},
		{ID: 5, Name: "Product 5", Description: "description 5", Price: 500},
		{ID: 6, Name: "Product 6", Description: "description 6", Price: 50},
	}
}
