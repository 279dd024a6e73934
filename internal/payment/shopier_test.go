package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *ShopierClient {
	return NewShopierClient(config.Shopier{
		APIKey:       "test-key",
		APISecret:    "test-secret",
		WebsiteIndex: "1",
		PaymentURL:   "https://pay.example/form",
	})
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:     501,
		UserID: 9,
		Customer: domain.CustomerInfo{
			Name:  "Ayşe Yılmaz",
			Email: "ayse@example.com",
			Phone: "+905551112233",
		},
		Shipping: domain.ShippingAddress{
			FullAddress: "Atatürk Cad. No:1",
			City:        "İstanbul",
			PostalCode:  "34000",
		},
		Items: []domain.OrderItem{
			{Title: "Oversize Tee", Price: 45000, Quantity: 2},
		},
		TotalSum: 95000,
	}
}

func sign(secret, data string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestBuildPaymentForm_FieldsAndSignature(t *testing.T) {
	session, err := testClient().BuildPaymentForm(testOrder())

	require.NoError(t, err)
	assert.Equal(t, int64(501), session.OrderID)
	assert.Equal(t, "https://pay.example/form", session.RedirectURL)

	form := session.FormData
	assert.Equal(t, "test-key", form["API_key"])
	assert.Equal(t, "501", form["platform_order_id"])
	assert.Equal(t, "950.00", form["total_order_value"])
	assert.Equal(t, "0", form["currency"])
	assert.Equal(t, "Ayşe", form["buyer_name"])
	assert.Equal(t, "Yılmaz", form["buyer_surname"])
	assert.Equal(t, "İstanbul", form["shipping_city"])
	assert.NotEmpty(t, form["random_nr"])

	expected := sign("test-secret", form["random_nr"]+"501"+"950.00"+"0")
	assert.Equal(t, expected, form["signature"])
}

func TestBuildPaymentForm_NotConfigured(t *testing.T) {
	client := NewShopierClient(config.Shopier{})

	_, err := client.BuildPaymentForm(testOrder())

	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestVerifyCallback_Success(t *testing.T) {
	fields := map[string]string{
		"platform_order_id": "501",
		"payment_id":        "pay-777",
		"status":            "success",
		"random_nr":         "123456",
	}
	fields["signature"] = sign("test-secret", "123456"+"501")

	result, err := testClient().VerifyCallback(fields)

	require.NoError(t, err)
	assert.Equal(t, int64(501), result.OrderID)
	assert.Equal(t, "pay-777", result.PaymentID)
	assert.True(t, result.Success)
}

func TestVerifyCallback_FailedStatus(t *testing.T) {
	fields := map[string]string{
		"platform_order_id": "501",
		"status":            "failed",
		"random_nr":         "123456",
	}
	fields["signature"] = sign("test-secret", "123456"+"501")

	result, err := testClient().VerifyCallback(fields)

	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestVerifyCallback_TamperedOrderID(t *testing.T) {
	fields := map[string]string{
		"platform_order_id": "999",
		"status":            "success",
		"random_nr":         "123456",
	}
	fields["signature"] = sign("test-secret", "123456"+"501")

	_, err := testClient().VerifyCallback(fields)

	require.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifyCallback_MissingFields(t *testing.T) {
	_, err := testClient().VerifyCallback(map[string]string{"status": "success"})

	require.ErrorIs(t, err, ErrBadCallback)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "450.00", FormatAmount(45000))
	assert.Equal(t, "0.01", FormatAmount(1))
	assert.Equal(t, "29.99", FormatAmount(2999))
	assert.Equal(t, "1000.00", FormatAmount(100000))
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Ayşe Yılmaz")
	assert.Equal(t, "Ayşe", first)
	assert.Equal(t, "Yılmaz", last)

	first, last = splitName("Mehmet Ali Kaya")
	assert.Equal(t, "Mehmet Ali", first)
	assert.Equal(t, "Kaya", last)

	first, last = splitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Empty(t, last)
}
