package model

import "time"

// Order owns its lines; removing an order removes every line with it
type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time   `gorm:"not null;autoCreateTime" json:"createdAt"`
	Lines     []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
}

// OrderLine is a quantity of one product attached to one order.
// (OrderID, ProductID) is the primary key, so an order holds at most one line per product.
type OrderLine struct {
	OrderID   uint     `gorm:"primaryKey;autoIncrement:false" json:"orderId"`
	ProductID uint     `gorm:"primaryKey;autoIncrement:false;index" json:"productId"`
	Quantity  int      `gorm:"not null;check:quantity > 0" json:"quantity"`
	Product   *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"product,omitempty"`
}

// LineRequest is one (productId, quantity) pair of a reconciliation target
type LineRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"gt=0"`
}

// AddProductRequest adds quantity units of a product to an order.
type AddProductRequest struct {
	OrderID   uint `json:"orderId" validate:"required"`
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"gt=0"`
}

// EnsureLines replaces a nil line slice with an empty one so it encodes as [].
func (o *Order) EnsureLines() {
	if o.Lines == nil {
		o.Lines = []OrderLine{}
	}
}
