package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/access"
	"github.com/Skotchmaster/storefront/internal/domain"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/order/repo"
	"github.com/Skotchmaster/storefront/internal/order/transport"
	"github.com/Skotchmaster/storefront/internal/pagination"
	"github.com/Skotchmaster/storefront/internal/testutil"
)

type fixture struct {
	db      *gorm.DB
	svc     *OrderService
	rec     *events.Recorder
	user    models.User
	other   models.User
	admin   models.User
	product models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{db: db, rec: &events.Recorder{}}

	f.user = models.User{Fullname: "Ann Lee", Email: "ann@shop.io", PhoneNumber: "0123456789", Address: "1 Main St", PasswordHash: "x", Role: models.RoleUser}
	f.other = models.User{Fullname: "Bob Ray", Email: "bob@shop.io", PhoneNumber: "0987654321", Address: "2 Side St", PasswordHash: "x", Role: models.RoleUser}
	f.admin = models.User{Fullname: "Root", Email: "root@shop.io", PhoneNumber: "0000000000", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&f.user).Error)
	require.NoError(t, db.Create(&f.other).Error)
	require.NoError(t, db.Create(&f.admin).Error)

	cat := models.Category{Name: "Shirts"}
	require.NoError(t, db.Create(&cat).Error)
	gal := models.Gallery{Name: "shirt", Thumbnails: models.Thumbnails{"https://cdn.example/a.jpg"}}
	require.NoError(t, db.Create(&gal).Error)
	f.product = models.Product{CategoryID: cat.ID, GalleryID: gal.ID, Title: "Oxford", Price: 100000, Discount: 10, Size: "M", Description: "Cotton shirt."}
	require.NoError(t, db.Create(&f.product).Error)

	f.svc = New(&repo.GormRepo{DB: db}, f.rec)
	return f
}

func (f *fixture) caller(u models.User) access.Caller {
	return access.Caller{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (f *fixture) newProduct(t *testing.T, price int64, discount int) models.Product {
	t.Helper()
	p := models.Product{CategoryID: f.product.CategoryID, GalleryID: f.product.GalleryID, Title: "Extra", Price: price, Discount: discount, Size: "L", Description: "x"}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) add(t *testing.T, productID uint, qty int) transport.CartLineView {
	t.Helper()
	v, err := f.svc.AddToCart(context.Background(), f.caller(f.user), transport.AddToCartRequest{
		UserID: f.user.ID, ProductID: productID, Quantity: qty,
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) cartCount(t *testing.T, userID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Order{}).Where("user_id = ? AND status = ?", userID, domain.StatusCart).Count(&n).Error)
	return n
}

func firstPage() pagination.Page {
	return pagination.Page{Page: 1, Limit: 10}
}

func TestAddToCart_SingleCart(t *testing.T) {
	f := newFixture(t)
	second := f.newProduct(t, 500, 0)

	a := f.add(t, f.product.ID, 1)
	b := f.add(t, second.ID, 1)

	assert.Equal(t, a.OrderID, b.OrderID)
	assert.Equal(t, int64(1), f.cartCount(t, f.user.ID))
}

func TestAddToCart_AccumulatesAtSnapshotPrice(t *testing.T) {
	f := newFixture(t)

	first := f.add(t, f.product.ID, 2)
	assert.Equal(t, int64(180000), first.TotalMoney)
	assert.Equal(t, []string{"https://cdn.example/a.jpg"}, first.ProductDetails.Thumbnail)

	require.NoError(t, f.db.Model(&f.product).Updates(map[string]any{"price": 50000, "discount": 0}).Error)

	second := f.add(t, f.product.ID, 3)
	assert.Equal(t, 5, second.Quantity)
	assert.Equal(t, int64(5*90000), second.TotalMoney)

	var lines int64
	require.NoError(t, f.db.Model(&models.OrderLine{}).Where("order_id = ?", first.OrderID).Count(&lines).Error)
	assert.Equal(t, int64(1), lines)
}

func TestAddToCart_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	free := f.newProduct(t, 1, 99)

	cases := []struct {
		name   string
		caller access.Caller
		req    transport.AddToCartRequest
		want   error
	}{
		{"admin", f.caller(f.admin), transport.AddToCartRequest{UserID: f.admin.ID, ProductID: f.product.ID, Quantity: 1}, domain.ErrForbidden},
		{"foreign cart", f.caller(f.other), transport.AddToCartRequest{UserID: f.user.ID, ProductID: f.product.ID, Quantity: 1}, domain.ErrForbidden},
		{"zero quantity", f.caller(f.user), transport.AddToCartRequest{UserID: f.user.ID, ProductID: f.product.ID, Quantity: 0}, domain.ErrValidation},
		{"missing product", f.caller(f.user), transport.AddToCartRequest{UserID: f.user.ID, ProductID: 9999, Quantity: 1}, domain.ErrNotFound},
		{"zero effective price", f.caller(f.user), transport.AddToCartRequest{UserID: f.user.ID, ProductID: free.ID, Quantity: 1}, domain.ErrInvalidState},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.AddToCart(ctx, tc.caller, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Equal(t, int64(0), f.cartCount(t, f.user.ID))
	assert.Empty(t, f.rec.Events)
}

func TestAddToCart_SetsNote(t *testing.T) {
	f := newFixture(t)
	note := "ring twice"

	v, err := f.svc.AddToCart(context.Background(), f.caller(f.user), transport.AddToCartRequest{
		UserID: f.user.ID, ProductID: f.product.ID, Quantity: 1, Note: &note,
	})
	require.NoError(t, err)

	var cart models.Order
	require.NoError(t, f.db.First(&cart, v.OrderID).Error)
	assert.Equal(t, note, cart.Note)
}

func TestRemoveFromCart_PrunesEmptyCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	second := f.newProduct(t, 500, 0)
	f.add(t, f.product.ID, 1)
	f.add(t, second.ID, 1)

	removed, err := f.svc.RemoveFromCart(ctx, f.caller(f.user), f.user.ID, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, removed.IDUser)
	assert.Equal(t, "Oxford", removed.ProductDetails.Title)
	assert.Equal(t, int64(1), f.cartCount(t, f.user.ID))

	_, err = f.svc.RemoveFromCart(ctx, f.caller(f.user), f.user.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.cartCount(t, f.user.ID))

	_, err = f.svc.GetCart(ctx, f.caller(f.user), f.user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.RemoveFromCart(ctx, f.caller(f.user), f.user.ID, second.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemoveFromCart_LineMissing(t *testing.T) {
	f := newFixture(t)
	second := f.newProduct(t, 500, 0)
	f.add(t, f.product.ID, 1)

	_, err := f.svc.RemoveFromCart(context.Background(), f.caller(f.user), f.user.ID, second.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(1), f.cartCount(t, f.user.ID))

	_, err = f.svc.RemoveFromCart(context.Background(), f.caller(f.other), f.user.ID, f.product.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPlaceOrder_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := transport.PlaceOrderRequest{UserID: f.user.ID}

	_, err := f.svc.PlaceOrder(ctx, f.caller(f.user), req)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	empty := models.Order{UserID: f.user.ID, OrderDate: time.Now(), Status: domain.StatusCart}
	require.NoError(t, f.db.Create(&empty).Error)

	_, err = f.svc.PlaceOrder(ctx, f.caller(f.user), req)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	var reloaded models.Order
	require.NoError(t, f.db.First(&reloaded, empty.ID).Error)
	assert.Equal(t, domain.StatusCart, reloaded.Status)
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f.svc.Now = func() time.Time { return fixed }
	f.add(t, f.product.ID, 2)
	note := "leave at door"

	view, err := f.svc.PlaceOrder(context.Background(), f.caller(f.user), transport.PlaceOrderRequest{UserID: f.user.ID, Note: &note})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, view.Status)
	assert.Equal(t, int64(180000), view.TotalMoney)
	assert.Equal(t, note, view.Note)
	assert.True(t, fixed.Equal(view.OrderDate))
	require.Len(t, view.Products, 1)
	assert.Equal(t, "Oxford", view.Products[0].ProductDetails.Title)
	require.NotNil(t, view.User)
	assert.Equal(t, "ann@shop.io", view.User.Email)
	assert.Equal(t, int64(0), f.cartCount(t, f.user.ID))
}

func TestConfirmOrder_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.caller(f.admin)

	line := f.add(t, f.product.ID, 2)
	assert.Equal(t, int64(180000), line.TotalMoney)

	placed, err := f.svc.PlaceOrder(ctx, f.caller(f.user), transport.PlaceOrderRequest{UserID: f.user.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, placed.Status)
	assert.Equal(t, int64(180000), placed.TotalMoney)

	v, err := f.svc.ConfirmOrder(ctx, admin, placed.OrderID, transport.ConfirmOrderRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, v.Status)

	v, err = f.svc.ConfirmOrder(ctx, admin, placed.OrderID, transport.ConfirmOrderRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivering, v.Status)

	_, err = f.svc.ConfirmOrder(ctx, admin, placed.OrderID, transport.ConfirmOrderRequest{DeliveryStatus: "lost"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	v, err = f.svc.ConfirmOrder(ctx, admin, placed.OrderID, transport.ConfirmOrderRequest{DeliveryStatus: "success"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, v.Status)

	_, err = f.svc.ConfirmOrder(ctx, admin, placed.OrderID, transport.ConfirmOrderRequest{DeliveryStatus: "success"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.svc.ConfirmOrder(ctx, f.caller(f.user), placed.OrderID, transport.ConfirmOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.ConfirmOrder(ctx, admin, 9999, transport.ConfirmOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, []string{
		events.CartItemAdded,
		events.OrderPlaced,
		events.OrderStatusChanged,
		events.OrderStatusChanged,
		events.OrderStatusChanged,
	}, f.rec.Types())
	last := f.rec.Events[len(f.rec.Events)-1].Event.(events.OrderEvent)
	assert.Equal(t, "delivering", last.From)
	assert.Equal(t, "delivered", last.To)
}

func (f *fixture) placeAs(t *testing.T, status domain.OrderStatus) uint {
	t.Helper()
	f.add(t, f.product.ID, 1)
	v, err := f.svc.PlaceOrder(context.Background(), f.caller(f.user), transport.PlaceOrderRequest{UserID: f.user.ID})
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&models.Order{}).Where("id = ?", v.OrderID).Update("status", status).Error)
	return v.OrderID
}

func TestCancelOrder_Window(t *testing.T) {
	cases := []struct {
		status domain.OrderStatus
		want   error
	}{
		{domain.StatusPending, nil},
		{domain.StatusConfirmed, nil},
		{domain.StatusDelivering, domain.ErrInvalidState},
		{domain.StatusDelivered, domain.ErrInvalidState},
		{domain.StatusCanceled, domain.ErrInvalidState},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			f := newFixture(t)
			id := f.placeAs(t, tc.status)

			v, err := f.svc.CancelOrder(context.Background(), f.caller(f.user), transport.CancelOrderRequest{OrderID: id, UserID: f.user.ID})
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.StatusCanceled, v.Status)
		})
	}
}

func TestCancelOrder_Ownership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.placeAs(t, domain.StatusPending)

	_, err := f.svc.CancelOrder(ctx, f.caller(f.other), transport.CancelOrderRequest{OrderID: id, UserID: f.other.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.CancelOrder(ctx, f.caller(f.other), transport.CancelOrderRequest{OrderID: id, UserID: f.user.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.CancelOrder(ctx, f.caller(f.admin), transport.CancelOrderRequest{OrderID: id, UserID: f.admin.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.CancelOrder(ctx, f.caller(f.user), transport.CancelOrderRequest{OrderID: 9999, UserID: f.user.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var o models.Order
	require.NoError(t, f.db.First(&o, id).Error)
	assert.Equal(t, domain.StatusPending, o.Status)
}

func TestDeleteOrder_Guard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.caller(f.admin)
	id := f.placeAs(t, domain.StatusPending)

	_, err := f.svc.DeleteOrder(ctx, admin, id)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.svc.CancelOrder(ctx, f.caller(f.user), transport.CancelOrderRequest{OrderID: id, UserID: f.user.ID})
	require.NoError(t, err)

	_, err = f.svc.DeleteOrder(ctx, f.caller(f.user), id)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	v, err := f.svc.DeleteOrder(ctx, admin, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCanceled, v.Status)
	assert.Len(t, v.Products, 1)

	var lines int64
	require.NoError(t, f.db.Model(&models.OrderLine{}).Where("order_id = ?", id).Count(&lines).Error)
	assert.Zero(t, lines)
	err = f.db.First(&models.Order{}, id).Error
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = f.svc.DeleteOrder(ctx, admin, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetOrder_OwnerOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	second := f.newProduct(t, 500, 0)
	f.add(t, f.product.ID, 1)
	f.add(t, second.ID, 2)
	placed, err := f.svc.PlaceOrder(ctx, f.caller(f.user), transport.PlaceOrderRequest{UserID: f.user.ID})
	require.NoError(t, err)

	_, _, err = f.svc.GetOrder(ctx, f.caller(f.other), placed.OrderID, firstPage())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	v, meta, err := f.svc.GetOrder(ctx, f.caller(f.user), placed.OrderID, pagination.Page{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, v.Products, 1)
	assert.Equal(t, int64(90000+1000), v.TotalMoney)
	assert.Equal(t, int64(2), meta.TotalItems)
	assert.True(t, meta.HasNextPage)

	_, _, err = f.svc.GetOrder(ctx, f.caller(f.admin), placed.OrderID, firstPage())
	assert.NoError(t, err)
}

func TestListByStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.placeAs(t, domain.StatusConfirmed)

	_, _, err := f.svc.ListByStatus(ctx, f.caller(f.admin), "cart", firstPage())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = f.svc.ListByStatus(ctx, f.caller(f.user), "confirmed", firstPage())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	views, meta, err := f.svc.ListByStatus(ctx, f.caller(f.admin), "confirmed", firstPage())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(90000), views[0].TotalMoney)
	assert.Equal(t, int64(1), meta.TotalItems)
}

func TestListByUserKeyword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.placeAs(t, domain.StatusPending)

	views, _, err := f.svc.ListByUserKeyword(ctx, f.caller(f.user), "MAIN st", firstPage())
	require.NoError(t, err)
	assert.Len(t, views, 1)

	_, _, err = f.svc.ListByUserKeyword(ctx, f.caller(f.other), "ann@", firstPage())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	views, _, err = f.svc.ListByUserKeyword(ctx, f.caller(f.admin), "ann@", firstPage())
	require.NoError(t, err)
	assert.Len(t, views, 1)

	_, _, err = f.svc.ListByUserKeyword(ctx, f.caller(f.admin), "nobody", firstPage())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrders_NewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.placeAs(t, domain.StatusPending)
	second := f.placeAs(t, domain.StatusPending)

	views, meta, err := f.svc.ListOrders(ctx, f.caller(f.admin), firstPage())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, second, views[0].OrderID)
	assert.Equal(t, first, views[1].OrderID)
	assert.Equal(t, int64(2), meta.TotalItems)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.rec.Err = errors.New("broker down")

	v := f.add(t, f.product.ID, 1)
	assert.NotZero(t, v.OrderID)
	assert.Len(t, f.rec.Events, 1)
}
