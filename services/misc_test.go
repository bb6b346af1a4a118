package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/models"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(NotFound("x")))
	assert.Equal(t, http.StatusServiceUnavailable, StatusOf(fmt.Errorf("wrapped: %w", Unavailable("x"))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(fmt.Errorf("boom")))
}

func TestWishlist(t *testing.T) {
	wishlists, products := newFakeWishlists(), newFakeProducts()
	svc := NewWishlistService(wishlists, products)
	ctx := context.Background()
	user := primitive.NewObjectID()
	a := products.add(models.Product{Name: "A"})
	b := products.add(models.Product{Name: "B"})

	view, err := svc.GetWishlist(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, view.Products)

	_, err = svc.AddToWishlist(ctx, user, a.ID.Hex())
	require.NoError(t, err)
	_, err = svc.AddToWishlist(ctx, user, b.ID.Hex())
	require.NoError(t, err)
	view, err = svc.AddToWishlist(ctx, user, a.ID.Hex())
	require.NoError(t, err)
	require.Len(t, view.Products, 2, "no duplicates")
	assert.Equal(t, "A", view.Products[0].Name)

	_, err = svc.AddToWishlist(ctx, user, primitive.NewObjectID().Hex())
	requireServiceError(t, err, http.StatusNotFound, "Product not found")

	view, err = svc.RemoveFromWishlist(ctx, user, a.ID.Hex())
	require.NoError(t, err)
	require.Len(t, view.Products, 1)
	assert.Equal(t, "B", view.Products[0].Name)
}

func TestPaymentService(t *testing.T) {
	gw := &fakeGateway{configured: true}
	svc := NewPaymentService(gw)
	ctx := context.Background()

	po, err := svc.CreatePaymentOrder(ctx, 1499.5)
	require.NoError(t, err)
	assert.Equal(t, "rzp_test", po.KeyID)
	assert.Equal(t, []float64{1499.5}, gw.created)

	_, err = svc.CreatePaymentOrder(ctx, 0)
	requireServiceError(t, err, http.StatusBadRequest, "Amount must be greater than 0")

	ok, err := svc.VerifyPayment(VerifyPaymentInput{OrderID: "o", PaymentID: "p", Signature: "ok"})
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.VerifyPayment(VerifyPaymentInput{OrderID: "o", PaymentID: "p", Signature: "bad"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.VerifyPayment(VerifyPaymentInput{OrderID: "o"})
	requireServiceError(t, err, http.StatusBadRequest, "")

	gw.configured = false
	_, err = svc.CreatePaymentOrder(ctx, 10)
	requireServiceError(t, err, http.StatusServiceUnavailable, "")
}

func TestAdminDashboardAndUsers(t *testing.T) {
	users, products, orders, workshops := newFakeUsers(), newFakeProducts(), newFakeOrders(), &fakeWorkshops{}
	svc := NewAdminService(users, products, orders, workshops)
	ctx := context.Background()

	admin := users.add(models.User{Name: "Root", Email: "root@example.com", Role: models.RoleAdmin})
	cust := users.add(models.User{Name: "C", Email: "c@example.com", Role: models.RoleUser})
	products.add(models.Product{Name: "Low", Stock: 2})
	products.add(models.Product{Name: "Plenty", Stock: 50})
	for i, st := range []models.OrderStatus{models.OrderStatusPending, models.OrderStatusDelivered, models.OrderStatusCancelled} {
		_ = orders.Create(ctx, &models.Order{UserID: cust.ID, OrderStatus: st, TotalPrice: 100, CreatedAt: time.Now().Add(time.Duration(i) * time.Minute)})
	}

	d, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.TotalUsers)
	assert.Equal(t, int64(2), d.TotalProducts)
	assert.Equal(t, int64(3), d.TotalOrders)
	assert.Equal(t, 200.0, d.TotalRevenue, "cancelled orders do not count")
	assert.Len(t, d.RecentOrders, 3)
	require.Len(t, d.LowStock, 1)
	assert.Equal(t, "Low", d.LowStock[0].Name)

	requireServiceError(t, svc.DeleteUser(ctx, admin.ID.Hex()), http.StatusBadRequest, "Cannot delete admin user")
	require.NoError(t, svc.DeleteUser(ctx, cust.ID.Hex()))
	requireServiceError(t, svc.DeleteUser(ctx, cust.ID.Hex()), http.StatusNotFound, "User not found")
}

func TestSubmitWorkshopRequestNotifiesAdmins(t *testing.T) {
	users, workshops, notifier := newFakeUsers(), &fakeWorkshops{}, &fakeNotifier{}
	users.add(models.User{Email: "a1@example.com", Role: models.RoleAdmin})
	users.add(models.User{Email: "a2@example.com", Role: models.RoleAdmin})
	users.add(models.User{Email: "u@example.com", Role: models.RoleUser})
	svc := NewWorkshopService(workshops, users, notifier)

	req, err := svc.SubmitWorkshopRequest(context.Background(), WorkshopInput{
		Name: "Dev", Email: "Dev@Example.com", Phone: "555", Requirement: "Walnut bookshelf, 2m",
	})
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", req.Email)
	assert.Len(t, workshops.reqs, 1)
	assert.Equal(t, []string{"workshop_request", "workshop_request"}, notifier.sent)

	_, err = svc.SubmitWorkshopRequest(context.Background(), WorkshopInput{Name: "Dev", Email: "dev@example.com"})
	requireServiceError(t, err, http.StatusBadRequest, "phone is required")
}
