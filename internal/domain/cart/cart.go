package cart

// Item is a single cart row. ID is the product identity and keys the cart:
// there is never more than one row per product. Price is the display string
// the catalog renders ("1,800 FCFA"); totals re-extract the integer magnitude
// from it. ProductID is set only when the row mirrors a server cart entry.
type Item struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image,omitempty"`
	Seller    string `json:"seller,omitempty"`
	ProductID int    `json:"product_id,omitempty"`
}

// Add increments the quantity when the product is already present, otherwise
// appends a new row with quantity 1.
func Add(items []Item, item Item) []Item {
	for i := range items {
		if items[i].ID == item.ID {
			next := make([]Item, len(items))
			copy(next, items)
			next[i].Quantity++
			return next
		}
	}

	item.Quantity = 1
	next := make([]Item, 0, len(items)+1)
	next = append(next, items...)
	return append(next, item)
}

// Remove filters the product out. Removing an absent id is a no-op.
func Remove(items []Item, id int) []Item {
	next := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	return next
}

// SetQuantity sets the quantity directly. A quantity of zero or less removes
// the row; an item is never retained at quantity zero.
func SetQuantity(items []Item, id, quantity int) []Item {
	if quantity <= 0 {
		return Remove(items, id)
	}

	next := make([]Item, len(items))
	copy(next, items)
	for i := range next {
		if next[i].ID == id {
			next[i].Quantity = quantity
		}
	}
	return next
}

func TotalItems(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

func TotalPrice(items []Item) int {
	total := 0
	for _, it := range items {
		total += it.Quantity * ParsePrice(it.Price)
	}
	return total
}

// ParsePrice extracts the integer magnitude from a localized price string by
// keeping only its digits: "1,800 FCFA" -> 1800. The domain currency has no
// decimals, so this is lossless.
func ParsePrice(price string) int {
	value := 0
	for _, r := range price {
		if r >= '0' && r <= '9' {
			value = value*10 + int(r-'0')
		}
	}
	return value
}
