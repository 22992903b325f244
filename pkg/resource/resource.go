// Package resource turns models into the exact JSON shape an API returns:
//
//	func Product(p models.Product) resource.Map {
//	    return resource.Map{"id": p.ID, "name": p.Name}
//	}
//
//	cx.Success(resource.One(product, Product))
//	cx.Paginated(resource.Many(products, Product), page)
package resource

// Map is the output of a transformer.
type Map = map[string]interface{}

// Transformer renders one model.
type Transformer[T any] func(T) Map

// One renders a single model.
func One[T any](v T, fn Transformer[T]) Map {
	return fn(v)
}

// Many renders a slice. The result is never nil, so an empty list encodes
// as [] rather than null.
func Many[T any](items []T, fn Transformer[T]) []Map {
	out := make([]Map, 0, len(items))
	for _, v := range items {
		out = append(out, fn(v))
	}
	return out
}

// Ptr renders a pointer, or nil when it is nil.
func Ptr[T any](v *T, fn Transformer[T]) interface{} {
	if v == nil {
		return nil
	}
	return fn(*v)
}
