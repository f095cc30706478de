package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/painless/shop/internal/domain/shared/valueobject"
	"github.com/painless/shop/internal/domain/shop"
)

// OrderModel maps the orders table
type OrderModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Status        string    `gorm:"type:varchar(20);not null;default:'waiting';index"`
	ReceiverName  string    `gorm:"type:varchar(100)"`
	PostalAddress string    `gorm:"type:text"`
	Created       time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a shop Order
func (m *OrderModel) ToDomain() *shop.Order {
	return &shop.Order{
		ID:            m.ID,
		UserID:        m.UserID,
		Status:        shop.OrderStatus(m.Status),
		ReceiverName:  m.ReceiverName,
		PostalAddress: m.PostalAddress,
		Created:       m.Created,
	}
}

// AddressModel maps the addresses table
type AddressModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID `gorm:"type:uuid;not null;index"`
	Country             string    `gorm:"type:varchar(50)"`
	Province            string    `gorm:"type:varchar(50)"`
	City                string    `gorm:"type:varchar(50)"`
	PostalAddress       string    `gorm:"type:text;not null"`
	PostalCode          string    `gorm:"type:varchar(10)"`
	HouseNumber         string    `gorm:"type:varchar(10)"`
	BuildingUnit        string    `gorm:"type:varchar(10)"`
	ReceiverFirstName   string    `gorm:"type:varchar(30)"`
	ReceiverLastName    string    `gorm:"type:varchar(30)"`
	ReceiverPhoneNumber string    `gorm:"type:varchar(15)"`
	IsDefault           bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a shop Address
func (m *AddressModel) ToDomain() *shop.Address {
	return &shop.Address{
		ID:                  m.ID,
		UserID:              m.UserID,
		Country:             m.Country,
		Province:            m.Province,
		City:                m.City,
		PostalAddress:       m.PostalAddress,
		PostalCode:          m.PostalCode,
		HouseNumber:         m.HouseNumber,
		BuildingUnit:        m.BuildingUnit,
		ReceiverFirstName:   m.ReceiverFirstName,
		ReceiverLastName:    m.ReceiverLastName,
		ReceiverPhoneNumber: m.ReceiverPhoneNumber,
		IsDefault:           m.IsDefault,
	}
}

// BrandModel maps the brands table
type BrandModel struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title string    `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (BrandModel) TableName() string {
	return "brands"
}

// ColorModel maps the colors table
type ColorModel struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Hex   string    `gorm:"type:varchar(7)"`
}

// TableName returns the table name for GORM
func (ColorModel) TableName() string {
	return "colors"
}

// ProductModel maps the products table
type ProductModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title           string    `gorm:"type:varchar(150);not null"`
	BrandID         uuid.UUID `gorm:"type:uuid;not null;index"`
	IsVoucherActive bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// PackModel maps the packs table
type PackModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ColorID   *uuid.UUID      `gorm:"type:uuid;index"`
	Price     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	BuyPrice  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (PackModel) TableName() string {
	return "packs"
}

// ToDomain converts the persistence model to a shop Pack priced in currency
func (m *PackModel) ToDomain(currency valueobject.Currency) *shop.Pack {
	price, _ := valueobject.NewMoney(m.Price, currency)
	buyPrice, _ := valueobject.NewMoney(m.BuyPrice, currency)
	return &shop.Pack{
		ID:        m.ID,
		ProductID: m.ProductID,
		ColorID:   m.ColorID,
		Price:     price,
		BuyPrice:  buyPrice,
	}
}

// PackOrderModel maps the pack_orders table
type PackOrderModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	PackID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null;default:1"`
	Cost       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	BuyPrice   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	IsRefunded bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (PackOrderModel) TableName() string {
	return "pack_orders"
}

// VoucherModel maps the vouchers table
type VoucherModel struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code string    `gorm:"type:varchar(50);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (VoucherModel) TableName() string {
	return "vouchers"
}

// OrderVoucherModel maps the order_vouchers join table
type OrderVoucherModel struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	VoucherID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (OrderVoucherModel) TableName() string {
	return "order_vouchers"
}

// CartModel maps the carts table; a user has at most one cart
type CartModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// PackCartModel maps the pack_carts table
type PackCartModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CartID   uuid.UUID `gorm:"type:uuid;not null;index"`
	PackID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity int       `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (PackCartModel) TableName() string {
	return "pack_carts"
}

// AllModels lists every model in dependency order, for AutoMigrate in tests and sqlite dev mode
func AllModels() []any {
	return []any{
		&UserModel{},
		&ProfileModel{},
		&AddressModel{},
		&BrandModel{},
		&ColorModel{},
		&ProductModel{},
		&PackModel{},
		&OrderModel{},
		&PackOrderModel{},
		&VoucherModel{},
		&OrderVoucherModel{},
		&CartModel{},
		&PackCartModel{},
	}
}
