package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/access"
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/order/repo"
	"github.com/Skotchmaster/storefront/internal/order/transport"
	"github.com/Skotchmaster/storefront/internal/pagination"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Now    func() time.Time
}

func New(r *repo.GormRepo, pub events.Publisher) *OrderService {
	return &OrderService{Repo: r, Events: pub, Now: time.Now}
}

func (s *OrderService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *OrderService) AddToCart(ctx context.Context, caller access.Caller, req transport.AddToCartRequest) (transport.CartLineView, error) {
	l := logging.FromContext(ctx).With("svc", "order.add_to_cart")

	if err := access.IsPlainUser(caller); err != nil {
		return transport.CartLineView{}, err
	}
	if err := access.IsOwner(caller, req.UserID); err != nil {
		return transport.CartLineView{}, err
	}
	if req.Quantity < 1 {
		return transport.CartLineView{}, fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation)
	}

	if _, err := s.Repo.FindUser(ctx, req.UserID); err != nil {
		return transport.CartLineView{}, err
	}
	product, err := s.Repo.FindProduct(ctx, req.ProductID)
	if err != nil {
		return transport.CartLineView{}, err
	}
	unitPrice, err := domain.EffectivePrice(product.Price, product.Discount)
	if err != nil {
		return transport.CartLineView{}, err
	}

	now := s.now()
	line, err := s.Repo.AddToCart(ctx, repo.AddItem{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: unitPrice,
		Note:      req.Note,
		Now:       now,
	})
	if err != nil {
		return transport.CartLineView{}, err
	}

	s.publish(ctx, l, line.OrderID, events.OrderEvent{
		Type:       events.CartItemAdded,
		OrderID:    line.OrderID,
		UserID:     req.UserID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
		TotalMoney: line.TotalMoney,
		At:         now,
	})

	return transport.CartLineView{
		OrderID:        line.OrderID,
		ProductID:      line.ProductID,
		Quantity:       line.Quantity,
		TotalMoney:     line.TotalMoney,
		ProductDetails: transport.NewProductDetails(product),
	}, nil
}

func (s *OrderService) RemoveFromCart(ctx context.Context, caller access.Caller, userID, productID uint) (transport.RemovedItemView, error) {
	l := logging.FromContext(ctx).With("svc", "order.remove_from_cart")

	if err := access.IsPlainUser(caller); err != nil {
		return transport.RemovedItemView{}, err
	}
	if err := access.IsOwner(caller, userID); err != nil {
		return transport.RemovedItemView{}, err
	}

	if _, err := s.Repo.FindUser(ctx, userID); err != nil {
		return transport.RemovedItemView{}, err
	}
	product, err := s.Repo.FindProduct(ctx, productID)
	if err != nil {
		return transport.RemovedItemView{}, err
	}

	cartID, err := s.Repo.RemoveFromCart(ctx, userID, productID)
	if err != nil {
		return transport.RemovedItemView{}, err
	}

	s.publish(ctx, l, cartID, events.OrderEvent{
		Type:      events.CartItemRemoved,
		OrderID:   cartID,
		UserID:    userID,
		ProductID: productID,
		At:        s.now(),
	})

	return transport.RemovedItemView{
		IDUser:         userID,
		ProductID:      productID,
		ProductDetails: transport.NewProductDetails(product),
	}, nil
}

func (s *OrderService) GetCart(ctx context.Context, caller access.Caller, userID uint) (transport.OrderView, error) {
	if err := access.IsPlainUser(caller); err != nil {
		return transport.OrderView{}, err
	}
	if err := access.IsOwner(caller, userID); err != nil {
		return transport.OrderView{}, err
	}

	cart, err := s.Repo.Cart(ctx, userID)
	if err != nil {
		return transport.OrderView{}, err
	}
	return transport.NewOrderView(cart), nil
}

func (s *OrderService) PlaceOrder(ctx context.Context, caller access.Caller, req transport.PlaceOrderRequest) (transport.OrderView, error) {
	l := logging.FromContext(ctx).With("svc", "order.place")

	if err := access.IsPlainUser(caller); err != nil {
		return transport.OrderView{}, err
	}
	if err := access.IsOwner(caller, req.UserID); err != nil {
		return transport.OrderView{}, err
	}
	if _, err := s.Repo.FindUser(ctx, req.UserID); err != nil {
		return transport.OrderView{}, err
	}

	now := s.now()
	order, err := s.Repo.PlaceOrder(ctx, req.UserID, req.Note, now)
	if err != nil {
		return transport.OrderView{}, err
	}
	view := transport.NewOrderView(order)

	s.publish(ctx, l, order.ID, events.OrderEvent{
		Type:       events.OrderPlaced,
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalMoney: view.TotalMoney,
		At:         now,
	})
	return view, nil
}

func (s *OrderService) CancelOrder(ctx context.Context, caller access.Caller, req transport.CancelOrderRequest) (transport.OrderView, error) {
	l := logging.FromContext(ctx).With("svc", "order.cancel")

	if err := access.IsPlainUser(caller); err != nil {
		return transport.OrderView{}, err
	}
	if err := access.IsOwner(caller, req.UserID); err != nil {
		return transport.OrderView{}, err
	}

	order, from, err := s.Repo.Transition(ctx, req.OrderID, func(o *models.Order) (domain.OrderStatus, error) {
		if o.UserID != req.UserID {
			return "", fmt.Errorf("%w: order %d belongs to another user", domain.ErrForbidden, o.ID)
		}
		if err := domain.CanCancel(o.Status); err != nil {
			return "", err
		}
		return domain.StatusCanceled, nil
	})
	if err != nil {
		return transport.OrderView{}, err
	}

	s.publish(ctx, l, order.ID, events.OrderEvent{
		Type:    events.OrderCanceled,
		OrderID: order.ID,
		UserID:  order.UserID,
		From:    string(from),
		To:      string(order.Status),
		At:      s.now(),
	})
	return transport.NewOrderView(order), nil
}

func (s *OrderService) ConfirmOrder(ctx context.Context, caller access.Caller, orderID uint, req transport.ConfirmOrderRequest) (transport.OrderView, error) {
	l := logging.FromContext(ctx).With("svc", "order.confirm")

	if err := access.IsAdmin(caller); err != nil {
		return transport.OrderView{}, err
	}

	delivery := strings.TrimSpace(req.DeliveryStatus)
	order, from, err := s.Repo.Transition(ctx, orderID, func(o *models.Order) (domain.OrderStatus, error) {
		return domain.Advance(o.Status, delivery)
	})
	if err != nil {
		return transport.OrderView{}, err
	}

	s.publish(ctx, l, order.ID, events.OrderEvent{
		Type:    events.OrderStatusChanged,
		OrderID: order.ID,
		UserID:  order.UserID,
		From:    string(from),
		To:      string(order.Status),
		At:      s.now(),
	})
	return transport.NewOrderView(order), nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, caller access.Caller, orderID uint) (transport.OrderView, error) {
	l := logging.FromContext(ctx).With("svc", "order.delete")

	if err := access.IsAdmin(caller); err != nil {
		return transport.OrderView{}, err
	}

	order, err := s.Repo.DeleteOrder(ctx, orderID, func(o *models.Order) error {
		return domain.CanDelete(o.Status)
	})
	if err != nil {
		return transport.OrderView{}, err
	}

	s.publish(ctx, l, order.ID, events.OrderEvent{
		Type:    events.OrderDeleted,
		OrderID: order.ID,
		UserID:  order.UserID,
		At:      s.now(),
	})
	return transport.NewOrderView(order), nil
}

func (s *OrderService) GetOrder(ctx context.Context, caller access.Caller, orderID uint, p pagination.Page) (transport.OrderView, pagination.Meta, error) {
	order, err := s.Repo.FindOrder(ctx, orderID)
	if err != nil {
		return transport.OrderView{}, pagination.Meta{}, err
	}
	if err := access.OwnerOrAdmin(caller, order.UserID); err != nil {
		return transport.OrderView{}, pagination.Meta{}, err
	}

	lines, count, total, err := s.Repo.LinesPage(ctx, orderID, p)
	if err != nil {
		return transport.OrderView{}, pagination.Meta{}, err
	}
	return transport.NewOrderPageView(order, lines, total), p.Meta(count), nil
}

func (s *OrderService) ListByStatus(ctx context.Context, caller access.Caller, rawStatus string, p pagination.Page) ([]transport.OrderView, pagination.Meta, error) {
	if err := access.IsAdmin(caller); err != nil {
		return nil, pagination.Meta{}, err
	}
	status, err := domain.ParseListableStatus(strings.ToLower(strings.TrimSpace(rawStatus)))
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	orders, total, err := s.Repo.ListByStatus(ctx, status, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return transport.NewOrderViews(orders), p.Meta(total), nil
}

func (s *OrderService) ListByUserKeyword(ctx context.Context, caller access.Caller, keyword string, p pagination.Page) ([]transport.OrderView, pagination.Meta, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, pagination.Meta{}, fmt.Errorf("%w: keyword is required", domain.ErrValidation)
	}

	user, err := s.Repo.FindUserByKeyword(ctx, keyword)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	if err := access.OwnerOrAdmin(caller, user.ID); err != nil {
		return nil, pagination.Meta{}, err
	}

	orders, total, err := s.Repo.ListByUser(ctx, user.ID, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return transport.NewOrderViews(orders), p.Meta(total), nil
}

func (s *OrderService) ListOrders(ctx context.Context, caller access.Caller, p pagination.Page) ([]transport.OrderView, pagination.Meta, error) {
	if err := access.IsAdmin(caller); err != nil {
		return nil, pagination.Meta{}, err
	}
	orders, total, err := s.Repo.ListAll(ctx, p)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return transport.NewOrderViews(orders), p.Meta(total), nil
}

// publish never fails the caller; a lost event is only logged.
func (s *OrderService) publish(ctx context.Context, l *slog.Logger, orderID uint, ev events.OrderEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, events.TopicOrders, strconv.FormatUint(uint64(orderID), 10), ev); err != nil {
		l.Warn("publish_error", "topic", events.TopicOrders, "event", ev.Type, "error", err)
	}
}
