package checkout_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/checkout"
	"github.com/Skotchmaster/storefront/internal/models"
)

// lostRace behaves like a database where another request committed the same
// order between our cart read and our insert.
type lostRace struct {
	user    models.User
	lines   []models.CartLine
	winner  *models.Order
	triedAs string
	txs     int
}

func (r *lostRace) InTx(ctx context.Context, fn func(context.Context, checkout.Stores) error) error {
	r.txs++
	return fn(ctx, checkout.Stores{Orders: r, Stock: r, Cart: r})
}

func (r *lostRace) FindOrderByKey(_ context.Context, userID uuid.UUID, key string) (*models.Order, error) {
	if r.winner != nil && r.winner.UserID == userID && r.winner.IdempotencyKey == key {
		return r.winner, nil
	}
	return nil, nil
}

func (r *lostRace) CreateOrder(_ context.Context, o *models.Order) error {
	r.triedAs = o.IdempotencyKey
	w := *o
	w.ID = uuid.New()
	r.winner = &w
	return checkout.ErrDuplicateOrder
}

func (r *lostRace) DecrementStock(context.Context, uuid.UUID, uint) (bool, error) { return true, nil }
func (r *lostRace) IncrementStock(context.Context, uuid.UUID, uint) error         { return nil }

func (r *lostRace) CartLines(context.Context, uuid.UUID) ([]models.CartLine, error) {
	return r.lines, nil
}

func (r *lostRace) DeleteCartItems(context.Context, uuid.UUID, []uuid.UUID) (int64, error) {
	return int64(len(r.lines)), nil
}

func (r *lostRace) UserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if id != r.user.ID {
		return nil, nil
	}
	return &r.user, nil
}

func (r *lostRace) DeliveryInfo(_ context.Context, userID uuid.UUID) (*models.DeliveryInfo, error) {
	return &models.DeliveryInfo{UserID: userID}, nil
}

func TestCheckout_LostRaceReplaysDerivedKey(t *testing.T) {
	u := models.User{ID: uuid.New(), Email: "race@example.com"}
	p := &models.Product{ID: uuid.New(), Price: 700, Stock: 3, NameSR: "Šolja", NameEN: "Mug"}
	r := &lostRace{
		user: u,
		lines: []models.CartLine{{
			Item:    models.CartItem{ID: uuid.New(), UserID: u.ID, ProductID: p.ID, Quantity: 2},
			Product: p,
		}},
	}
	o := &checkout.Orchestrator{Tx: r, Users: r, Delivery: r}

	res, err := o.Checkout(context.Background(), checkout.Request{UserID: u.ID})
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, r.winner.ID, res.Order.ID)
	assert.Equal(t, checkout.DeriveKey(u.ID, r.lines), r.triedAs)
	assert.Equal(t, 2, r.txs)
}
