package catalog

import "context"

// SampleProducts is the fixed set inserted into an empty catalog.
func SampleProducts() []Product {
	return []Product{
		{Name: "Bananas", Description: "Fresh bananas", Price: MustPrice("0.99"), Image: "/images/bananas.png", Category: "Fruit", Discount: 10},
		{Name: "Bread", Description: "Whole wheat bread", Price: MustPrice("2.49"), Image: "/images/bread.png", Category: "Bakery"},
		{Name: "Cereal", Description: "Breakfast cereal", Price: MustPrice("3.99"), Image: "/images/cereal.png", Category: "Breakfast"},
		{Name: "Cheese", Description: "Cheddar cheese", Price: MustPrice("4.49"), Image: "/images/cheese.png", Category: "Dairy"},
	}
}

// Seed inserts SampleProducts only when the store is empty and returns how
// many products it added.
func Seed(ctx context.Context, s Store) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	stored, err := s.InsertMany(ctx, SampleProducts())
	if err != nil {
		return 0, err
	}
	return len(stored), nil
}
