package domain

import "github.com/google/uuid"

// Cart is the session-scoped selection of products, a plain value passed into
// checkout. It enforces no business rules itself.
type Cart struct {
	OwnerID string
	Items   map[uuid.UUID]int32
}

func NewCart(ownerID string) Cart {
	return Cart{
		OwnerID: ownerID,
		Items:   map[uuid.UUID]int32{},
	}
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) Quantity(productID uuid.UUID) int32 {
	return c.Items[productID]
}

// ProductIDs returns the product identifiers in unspecified order.
func (c Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for id := range c.Items {
		ids = append(ids, id)
	}
	return ids
}
