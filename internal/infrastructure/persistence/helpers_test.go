package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/painless/shop/internal/domain/account"
	"github.com/painless/shop/internal/infrastructure/persistence/models"
)

// setupTestDB opens an in-memory sqlite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

// newMockGormDB wraps a sqlmock connection in a postgres GORM dialector
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return gormDB, mock, mockDB
}

// seedUser stores a user with the given phone number and returns it
func seedUser(t *testing.T, db *gorm.DB, phone string, opts ...func(*account.User)) *account.User {
	t.Helper()
	user, err := account.NewUser(phone, "")
	require.NoError(t, err)
	for _, opt := range opts {
		opt(user)
	}
	require.NoError(t, db.Create(models.UserModelFromDomain(user)).Error)
	return user
}

type shopFixture struct {
	t  *testing.T
	db *gorm.DB
}

func (f shopFixture) brand(title string) uuid.UUID {
	m := models.BrandModel{ID: uuid.New(), Title: title}
	require.NoError(f.t, f.db.Create(&m).Error)
	return m.ID
}

func (f shopFixture) color(title string) uuid.UUID {
	m := models.ColorModel{ID: uuid.New(), Title: title}
	require.NoError(f.t, f.db.Create(&m).Error)
	return m.ID
}

func (f shopFixture) product(brandID uuid.UUID, voucherActive bool) uuid.UUID {
	m := models.ProductModel{ID: uuid.New(), Title: "product", BrandID: brandID, IsVoucherActive: voucherActive}
	require.NoError(f.t, f.db.Create(&m).Error)
	return m.ID
}

func (f shopFixture) pack(productID uuid.UUID, colorID *uuid.UUID, price, buyPrice int64) uuid.UUID {
	m := models.PackModel{
		ID:        uuid.New(),
		ProductID: productID,
		ColorID:   colorID,
		Price:     decimal.NewFromInt(price),
		BuyPrice:  decimal.NewFromInt(buyPrice),
	}
	require.NoError(f.t, f.db.Create(&m).Error)
	return m.ID
}

func (f shopFixture) order(userID uuid.UUID, status string, created time.Time) uuid.UUID {
	m := models.OrderModel{ID: uuid.New(), UserID: userID, Status: status, Created: created}
	require.NoError(f.t, f.db.Create(&m).Error)
	return m.ID
}

func (f shopFixture) packOrder(orderID, packID uuid.UUID, quantity int, cost, buyPrice int64, refunded bool) {
	m := models.PackOrderModel{
		ID:         uuid.New(),
		OrderID:    orderID,
		PackID:     packID,
		Quantity:   quantity,
		Cost:       decimal.NewFromInt(cost),
		BuyPrice:   decimal.NewFromInt(buyPrice),
		IsRefunded: refunded,
	}
	require.NoError(f.t, f.db.Create(&m).Error)
}

func (f shopFixture) voucherOn(orderID uuid.UUID, code string) {
	v := models.VoucherModel{ID: uuid.New(), Code: code}
	require.NoError(f.t, f.db.Create(&v).Error)
	require.NoError(f.t, f.db.Create(&models.OrderVoucherModel{OrderID: orderID, VoucherID: v.ID}).Error)
}

func (f shopFixture) cartLine(userID, packID uuid.UUID, quantity int) {
	var cart models.CartModel
	err := f.db.Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		cart = models.CartModel{ID: uuid.New(), UserID: userID}
		require.NoError(f.t, f.db.Create(&cart).Error)
	}
	line := models.PackCartModel{ID: uuid.New(), CartID: cart.ID, PackID: packID, Quantity: quantity}
	require.NoError(f.t, f.db.Create(&line).Error)
}

func (f shopFixture) address(userID uuid.UUID, postal string, isDefault bool) {
	m := models.AddressModel{ID: uuid.New(), UserID: userID, PostalAddress: postal, IsDefault: isDefault}
	require.NoError(f.t, f.db.Create(&m).Error)
}
