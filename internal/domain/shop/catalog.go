package shop

import (
	"github.com/google/uuid"

	"github.com/painless/shop/internal/domain/shared/valueobject"
)

// Brand of a product
type Brand struct {
	ID    uuid.UUID
	Title string
}

// Color of a pack
type Color struct {
	ID    uuid.UUID
	Title string
	Hex   string
}

// Product groups the packs sold under one title
type Product struct {
	ID              uuid.UUID
	Title           string
	BrandID         uuid.UUID
	IsVoucherActive bool
}

// Pack is a sellable variant of a product
type Pack struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	ColorID   *uuid.UUID
	Price     valueobject.Money
	BuyPrice  valueobject.Money
}

// Margin is the profit of selling one unit
func (p *Pack) Margin() (valueobject.Money, error) {
	return p.Price.Subtract(p.BuyPrice)
}

// PackOrder is one line of an order
type PackOrder struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	PackID     uuid.UUID
	Quantity   int
	Cost       valueobject.Money
	BuyPrice   valueobject.Money
	IsRefunded bool
}

// Total is quantity times cost
func (l *PackOrder) Total() valueobject.Money {
	return l.Cost.MultiplyByInt(int64(l.Quantity))
}

// Voucher is a discount code that can be attached to many orders
type Voucher struct {
	ID   uuid.UUID
	Code string
}

// Cart is the open basket of a user
type Cart struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Lines  []PackCart
}

// PackCart is one line of a cart
type PackCart struct {
	ID       uuid.UUID
	CartID   uuid.UUID
	PackID   uuid.UUID
	Quantity int
}
