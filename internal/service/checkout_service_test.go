package service

import (
	"context"
	"errors"
	"testing"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/internal/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockCartStore implements cartStore.
type mockCartStore struct {
	cart      *domain.Cart
	getErr    error
	cleared   []int64
	threshold int64
	fee       int64
}

func (m *mockCartStore) GetCart(_ context.Context, _ int64) (*domain.Cart, error) {
	return m.cart, m.getErr
}

func (m *mockCartStore) Totals(cart *domain.Cart) domain.CartTotals {
	return cart.Totals(m.threshold, m.fee)
}

func (m *mockCartStore) Clear(_ context.Context, userID int64) error {
	m.cleared = append(m.cleared, userID)
	return nil
}

// mockOrderDrafts implements orderDrafts.
type mockOrderDrafts struct {
	nextID      int64
	created     *domain.Order
	createErr   error
	paid        map[int64]string
	cancelled   []int64
	storedOrder *domain.Order
}

func (m *mockOrderDrafts) CreateDraft(_ context.Context, order *domain.Order, then func(*domain.Order) error) error {
	if m.createErr != nil {
		return m.createErr
	}
	order.ID = m.nextID
	order.Status = domain.OrderStatusPending
	order.CalculateTotal()

	if then != nil {
		if err := then(order); err != nil {
			// Rolled back: the draft never existed.
			return err
		}
	}

	m.created = order
	return nil
}

func (m *mockOrderDrafts) GetOrder(_ context.Context, _ int64) (*domain.Order, error) {
	return m.storedOrder, nil
}

func (m *mockOrderDrafts) MarkPaid(_ context.Context, id int64, paymentID string) error {
	if m.paid == nil {
		m.paid = make(map[int64]string)
	}
	m.paid[id] = paymentID
	return nil
}

func (m *mockOrderDrafts) Cancel(_ context.Context, id int64) error {
	m.cancelled = append(m.cancelled, id)
	return nil
}

// mockFormBuilder implements payment.FormBuilder.
type mockFormBuilder struct {
	buildErr   error
	built      *domain.Order
	verifyRes  *payment.CallbackResult
	verifyErr  error
	buildCalls int
}

func (m *mockFormBuilder) BuildPaymentForm(order *domain.Order) (*payment.PaymentSession, error) {
	m.buildCalls++
	if m.buildErr != nil {
		return nil, m.buildErr
	}
	m.built = order
	return &payment.PaymentSession{
		OrderID:     order.ID,
		FormData:    map[string]string{"platform_order_id": "signed"},
		RedirectURL: "https://pay.example/form",
	}, nil
}

func (m *mockFormBuilder) VerifyCallback(_ map[string]string) (*payment.CallbackResult, error) {
	return m.verifyRes, m.verifyErr
}

func validCustomer() domain.CustomerInfo {
	return domain.CustomerInfo{
		Name:  "Ayşe Yılmaz",
		Email: "ayse@example.com",
		Phone: "+905551112233",
	}
}

func validShipping() domain.ShippingAddress {
	return domain.ShippingAddress{
		FullAddress: "Atatürk Cad. No:1",
		City:        "İstanbul",
	}
}

func filledCart() *domain.Cart {
	cart := domain.NewCart(9)
	cart.AddLine(domain.CartLine{
		ProductID: 7,
		Title:     "Oversize Tee",
		UnitPrice: 45000,
		Color:     "Black",
		Size:      "L",
		Quantity:  2,
	}, 2)
	return cart
}

func newCheckoutFixture(cart *domain.Cart) (*mockCartStore, *mockOrderDrafts, *mockFormBuilder, CheckoutService) {
	carts := &mockCartStore{cart: cart, threshold: 100000, fee: 5000}
	orders := &mockOrderDrafts{nextID: 501}
	forms := &mockFormBuilder{}
	svc := NewCheckoutService(carts, orders, forms, zap.NewNop())
	return carts, orders, forms, svc
}

func TestCheckout_EmptyCart(t *testing.T) {
	_, orders, forms, svc := newCheckoutFixture(domain.NewCart(9))

	_, err := svc.Checkout(context.Background(), 9, validCustomer(), validShipping())

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, orders.created)
	assert.Zero(t, forms.buildCalls)
}

func TestCheckout_MissingCustomerInfo(t *testing.T) {
	_, orders, _, svc := newCheckoutFixture(filledCart())

	customer := validCustomer()
	customer.Email = ""

	_, err := svc.Checkout(context.Background(), 9, customer, validShipping())

	require.ErrorIs(t, err, ErrMissingCustomerInfo)
	assert.Nil(t, orders.created)
}

func TestCheckout_MissingShippingCity(t *testing.T) {
	_, orders, _, svc := newCheckoutFixture(filledCart())

	shipping := validShipping()
	shipping.City = ""

	_, err := svc.Checkout(context.Background(), 9, validCustomer(), shipping)

	require.ErrorIs(t, err, ErrMissingShippingInfo)
	assert.Nil(t, orders.created)
}

func TestCheckout_Success(t *testing.T) {
	carts, orders, _, svc := newCheckoutFixture(filledCart())

	session, err := svc.Checkout(context.Background(), 9, validCustomer(), validShipping())

	require.NoError(t, err)
	assert.Equal(t, int64(501), session.OrderID)
	assert.Equal(t, "https://pay.example/form", session.RedirectURL)
	assert.NotEmpty(t, session.FormData)

	require.NotNil(t, orders.created)
	assert.Equal(t, domain.OrderStatusPending, orders.created.Status)
	assert.Equal(t, int64(90000), orders.created.Subtotal)
	assert.Equal(t, int64(5000), orders.created.ShippingFee)
	assert.Equal(t, int64(95000), orders.created.TotalSum)
	require.Len(t, orders.created.Items, 1)
	assert.Equal(t, int32(2), orders.created.Items[0].Quantity)

	// The cart survives until the payment callback confirms.
	assert.Empty(t, carts.cleared)
}

func TestCheckout_FreeShippingAboveThreshold(t *testing.T) {
	cart := filledCart()
	cart.AddLine(domain.CartLine{
		ProductID: 8,
		Title:     "Parka",
		UnitPrice: 80000,
		Quantity:  1,
	}, 1)

	_, orders, _, svc := newCheckoutFixture(cart)

	_, err := svc.Checkout(context.Background(), 9, validCustomer(), validShipping())

	require.NoError(t, err)
	assert.Equal(t, int64(0), orders.created.ShippingFee)
	assert.Equal(t, int64(170000), orders.created.TotalSum)
}

func TestCheckout_FormBuildFailureRollsBack(t *testing.T) {
	carts, orders, forms, svc := newCheckoutFixture(filledCart())
	forms.buildErr = payment.ErrNotConfigured

	_, err := svc.Checkout(context.Background(), 9, validCustomer(), validShipping())

	require.ErrorIs(t, err, payment.ErrNotConfigured)
	assert.Nil(t, orders.created)
	assert.Empty(t, carts.cleared)
}

func TestHandleCallback_BadSignature(t *testing.T) {
	carts, orders, forms, svc := newCheckoutFixture(filledCart())
	forms.verifyErr = payment.ErrBadSignature

	_, err := svc.HandleCallback(context.Background(), map[string]string{})

	require.ErrorIs(t, err, payment.ErrBadSignature)
	assert.Empty(t, orders.paid)
	assert.Empty(t, orders.cancelled)
	assert.Empty(t, carts.cleared)
}

func TestHandleCallback_SuccessMarksPaidAndClearsCart(t *testing.T) {
	carts, orders, forms, svc := newCheckoutFixture(filledCart())
	forms.verifyRes = &payment.CallbackResult{OrderID: 501, PaymentID: "pay-777", Success: true}
	orders.storedOrder = &domain.Order{ID: 501, UserID: 9}

	result, err := svc.HandleCallback(context.Background(), map[string]string{})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "pay-777", orders.paid[501])
	assert.Equal(t, []int64{9}, carts.cleared)
}

func TestHandleCallback_FailureCancelsAndKeepsCart(t *testing.T) {
	carts, orders, forms, svc := newCheckoutFixture(filledCart())
	forms.verifyRes = &payment.CallbackResult{OrderID: 501, Success: false}

	result, err := svc.HandleCallback(context.Background(), map[string]string{})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, []int64{501}, orders.cancelled)
	assert.Empty(t, orders.paid)
	assert.Empty(t, carts.cleared)
}

func TestHandleCallback_StorageErrorPropagates(t *testing.T) {
	_, _, forms, svc := newCheckoutFixture(filledCart())
	forms.verifyErr = errors.New("provider glitch")

	_, err := svc.HandleCallback(context.Background(), map[string]string{})

	require.Error(t, err)
}
