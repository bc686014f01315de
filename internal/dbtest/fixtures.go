package dbtest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
)

func User(t testing.TB, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "x", FirstName: "Test", LastName: "User", Role: models.RoleUser}
	require.NoError(t, db.Create(u).Error)
	return u
}

func Delivery(t testing.TB, db *gorm.DB, userID uuid.UUID) *models.DeliveryInfo {
	t.Helper()
	d := &models.DeliveryInfo{UserID: userID, Address: "Knez Mihailova 1", City: "Beograd", PostalCode: "11000", Phone: "+381601234567"}
	require.NoError(t, db.Create(d).Error)
	return d
}

func Product(t testing.TB, db *gorm.DB, name string, price int64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		NameSR: name, NameEN: name + " EN",
		Price: price, Stock: stock,
		CategorySR: "Ostalo", CategoryEN: "Other",
		Images: models.ImageList{"/img/" + name + ".jpg"},
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func CartItem(t testing.TB, db *gorm.DB, userID, productID uuid.UUID, qty uint) *models.CartItem {
	t.Helper()
	it := &models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	require.NoError(t, db.Create(it).Error)
	return it
}

func Stock(t testing.TB, db *gorm.DB, productID uuid.UUID) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", productID).Error)
	return p.Stock
}

func Count(t testing.TB, db *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
