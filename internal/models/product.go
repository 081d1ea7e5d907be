package models

// Product represents an inventory record.
type Product struct {
	ID          uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"type:text;not null;uniqueIndex:uq_product_name"`
	Price       float64 `json:"price" gorm:"not null;check:chk_products_price,price > 0"`
	Quantity    int     `json:"quantity" gorm:"not null;check:chk_products_quantity,quantity >= 0"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// ProductCreate is the payload accepted when creating a product.
// Pointers let validation tell a missing key apart from a zero value.
type ProductCreate struct {
	Name        *string  `json:"name" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gt=0"`
	Quantity    *int     `json:"quantity" validate:"required,gte=0"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
}

// ToProduct builds the record to persist. Call only after validation.
func (p ProductCreate) ToProduct() Product {
	product := Product{
		Description: p.Description,
		Category:    p.Category,
	}
	if p.Name != nil {
		product.Name = *p.Name
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.Quantity != nil {
		product.Quantity = *p.Quantity
	}
	return product
}

// ProductUpdate is a partial update. Only fields present in the request body are applied.
type ProductUpdate struct {
	Name        Optional[string]  `json:"name"`
	Price       Optional[float64] `json:"price"`
	Quantity    Optional[int]     `json:"quantity"`
	Description Optional[string]  `json:"description"`
	Category    Optional[string]  `json:"category"`
}

// Apply copies every supplied field onto product.
func (u ProductUpdate) Apply(product *Product) {
	if u.Name.Present() && !u.Name.IsNull() {
		product.Name = u.Name.Value
	}
	if u.Price.Present() && !u.Price.IsNull() {
		product.Price = u.Price.Value
	}
	if u.Quantity.Present() && !u.Quantity.IsNull() {
		product.Quantity = u.Quantity.Value
	}
	if u.Description.Present() {
		product.Description = u.Description.Ptr()
	}
	if u.Category.Present() {
		product.Category = u.Category.Ptr()
	}
}

// NullRequiredField returns the json name of the first non-nullable field sent as null.
func (u ProductUpdate) NullRequiredField() (string, bool) {
	switch {
	case u.Name.IsNull():
		return "name", true
	case u.Price.IsNull():
		return "price", true
	case u.Quantity.IsNull():
		return "quantity", true
	}
	return "", false
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	PriceGTE *float64 `json:"price_gte" validate:"omitempty,gte=0"`
}

// ProductEvent is published after a product change has been committed.
type ProductEvent struct {
	Type       string  `json:"type"`
	Product    Product `json:"product"`
	OccurredAt string  `json:"occurred_at"`
}

const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)
