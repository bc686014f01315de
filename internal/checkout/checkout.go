package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/notify"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/mykafka"
)

const (
	maxKeyLen            = 128
	defaultNotifyTimeout = 10 * time.Second
	eventTimeout         = 5 * time.Second
)

type Request struct {
	UserID         uuid.UUID
	IdempotencyKey string
	Lang           string
}

type Result struct {
	Order    *models.Order
	Replayed bool
	// NotificationErr is set when the order was placed but an e-mail could not be sent.
	NotificationErr error
}

// Orchestrator turns a user's cart into an order. Collaborators are chosen at
// the composition root; Guard, Events, Notifier and Metrics are optional.
type Orchestrator struct {
	Tx       Transactor
	Users    UserDirectory
	Delivery DeliveryLookup

	Notifier Notifier
	Events   EventPublisher
	Guard    Guard
	Metrics  *Metrics

	NotifyTimeout time.Duration
}

func (o *Orchestrator) Checkout(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	l := logging.FromContext(ctx).With("svc", "checkout", "user_id", req.UserID.String())

	res, err := o.checkout(ctx, req)
	o.Metrics.Observe(outcome(res, err), time.Since(start))

	if err != nil {
		l.Warn("checkout_failed", "code", Code(err), "error", err)
		return nil, err
	}
	if res.Replayed {
		l.Info("checkout_replayed", "order_id", res.Order.ID.String())
		return res, nil
	}

	l.Info("checkout_completed", "order_id", res.Order.ID.String(), "total", res.Order.Total, "lines", len(res.Order.Items))
	o.Metrics.OrderPlaced(len(res.Order.Items), res.Order.Total)
	o.publish(ctx, res.Order)
	res.NotificationErr = o.notify(ctx, req, res.Order)
	return res, nil
}

func (o *Orchestrator) checkout(ctx context.Context, req Request) (*Result, error) {
	user, err := o.validate(ctx, req)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if len(key) > maxKeyLen {
		return nil, fmt.Errorf("idempotency key longer than %d: %w", maxKeyLen, ErrValidation)
	}

	if o.Guard != nil {
		guardKey := user.ID.String()
		if key != "" {
			guardKey += ":" + key
		}
		release, err := o.Guard.Acquire(ctx, guardKey)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	var res *Result
	usedKey := key
	err = o.Tx.InTx(ctx, func(ctx context.Context, s Stores) error {
		var txErr error
		res, usedKey, txErr = placeOrder(ctx, s, user.ID, key)
		return txErr
	})
	if errors.Is(err, ErrDuplicateOrder) {
		// a concurrent request with the same key committed first
		return o.replay(ctx, user.ID, usedKey)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (o *Orchestrator) validate(ctx context.Context, req Request) (*models.User, error) {
	if req.UserID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	user, err := o.Users.UserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	info, err := o.Delivery.DeliveryInfo(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load delivery info: %w", err)
	}
	if info == nil {
		return nil, ErrMissingDeliveryInfo
	}
	return user, nil
}

// placeOrder runs inside one transaction. Any error rolls back the order,
// the stock changes and the cart deletion together.
// The returned key is the one the order was stored under, derived when the client sent none.
func placeOrder(ctx context.Context, s Stores, userID uuid.UUID, key string) (*Result, string, error) {
	if key != "" {
		existing, err := s.Orders.FindOrderByKey(ctx, userID, key)
		if err != nil {
			return nil, key, fmt.Errorf("find order: %w: %w", ErrOrderPersistence, err)
		}
		if existing != nil {
			return &Result{Order: existing, Replayed: true}, key, nil
		}
	}

	lines, err := s.Cart.CartLines(ctx, userID)
	if err != nil {
		return nil, key, fmt.Errorf("load cart: %w: %w", ErrOrderPersistence, err)
	}
	if len(lines) == 0 {
		return nil, key, ErrEmptyCart
	}

	if key == "" {
		key = DeriveKey(userID, lines)
	}

	order, err := BuildOrder(userID, key, lines)
	if err != nil {
		return nil, key, err
	}
	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, ErrDuplicateOrder) {
			return nil, key, err
		}
		return nil, key, fmt.Errorf("create order: %w: %w", ErrOrderPersistence, err)
	}

	inv := InventoryAdjuster{Stock: s.Stock}
	for _, it := range order.Items {
		if err := inv.Decrement(ctx, it.ProductID, it.Quantity); err != nil {
			return nil, key, err
		}
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.Item.ID)
	}
	if _, err := s.Cart.DeleteCartItems(ctx, userID, ids); err != nil {
		return nil, key, fmt.Errorf("clear cart: %w: %w", ErrOrderPersistence, err)
	}

	return &Result{Order: order}, key, nil
}

func (o *Orchestrator) replay(ctx context.Context, userID uuid.UUID, key string) (*Result, error) {
	var res *Result
	err := o.Tx.InTx(ctx, func(ctx context.Context, s Stores) error {
		existing, err := s.Orders.FindOrderByKey(ctx, userID, key)
		if err != nil {
			return fmt.Errorf("find order: %w: %w", ErrOrderPersistence, err)
		}
		if existing == nil {
			return fmt.Errorf("duplicate key without order: %w", ErrOrderPersistence)
		}
		res = &Result{Order: existing, Replayed: true}
		return nil
	})
	return res, err
}

type orderEventItem struct {
	ProductID string `json:"product_id"`
	Quantity  uint   `json:"quantity"`
}

type orderPlacedEvent struct {
	OrderID string           `json:"order_id"`
	UserID  string           `json:"user_id"`
	Total   int64            `json:"total"`
	Items   []orderEventItem `json:"items"`
}

func (o *Orchestrator) publish(ctx context.Context, order *models.Order) {
	if o.Events == nil {
		return
	}
	ev := orderPlacedEvent{OrderID: order.ID.String(), UserID: order.UserID.String(), Total: order.Total}
	for _, it := range order.Items {
		ev.Items = append(ev.Items, orderEventItem{ProductID: it.ProductID.String(), Quantity: it.Quantity})
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventTimeout)
	defer cancel()
	if err := o.Events.PublishEvent(pctx, mykafka.TopicOrderEvents, ev.OrderID, "order_placed", ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "topic", mykafka.TopicOrderEvents, "order_id", ev.OrderID, "error", err)
	}
}

func (o *Orchestrator) notify(ctx context.Context, req Request, order *models.Order) error {
	if o.Notifier == nil {
		return nil
	}
	user, err := o.Users.UserByID(ctx, order.UserID)
	if err != nil || user == nil {
		return fmt.Errorf("%w: load recipient: %v", ErrNotification, err)
	}

	timeout := o.NotifyTimeout
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if err := o.Notifier.NotifyOrder(nctx, OrderPayload(user, order, notify.KindOrderPlaced, req.Lang)); err != nil {
		if !errors.Is(err, ErrNotification) {
			err = fmt.Errorf("%w: %w", ErrNotification, err)
		}
		return err
	}
	return nil
}

// OrderPayload builds the notification for an order snapshot.
func OrderPayload(user *models.User, order *models.Order, kind notify.Kind, lang string) notify.Payload {
	p := notify.Payload{
		Kind:           kind,
		OrderID:        order.ID.String(),
		RecipientEmail: user.Email,
		RecipientName:  strings.TrimSpace(user.FirstName + " " + user.LastName),
		TotalAmount:    order.Total,
		Lang:           lang,
		LineItems:      make([]notify.LineItem, 0, len(order.Items)),
	}
	for _, it := range order.Items {
		p.LineItems = append(p.LineItems, notify.LineItem{
			Name:      it.Name(lang),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return p
}

func outcome(res *Result, err error) string {
	switch {
	case err != nil:
		return Code(err)
	case res.Replayed:
		return "replayed"
	default:
		return "placed"
	}
}
