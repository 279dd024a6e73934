// Package payment prepares the hosted-payment handoff. The server never
// talks to the provider itself: it signs a set of form fields that the
// browser POSTs to the hosted payment page, and later verifies the signed
// callback the provider sends back.
package payment

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/emregurs3s/karakus-tech-website/internal/domain"
	"github.com/emregurs3s/karakus-tech-website/pkg/config"
)

var (
	ErrNotConfigured = errors.New("payment provider is not configured")
	ErrBadSignature  = errors.New("callback signature mismatch")
	ErrBadCallback   = errors.New("callback is missing required fields")
)

// PaymentSession is what the storefront hands to the browser: the hidden
// form fields and the hosted page to POST them to.
type PaymentSession struct {
	OrderID     int64             `json:"order_id"`
	FormData    map[string]string `json:"form_data"`
	RedirectURL string            `json:"redirect_url"`
}

type CallbackResult struct {
	OrderID   int64
	PaymentID string
	Success   bool
}

type FormBuilder interface {
	BuildPaymentForm(order *domain.Order) (*PaymentSession, error)
	VerifyCallback(fields map[string]string) (*CallbackResult, error)
}

type ShopierClient struct {
	cfg config.Shopier
}

func NewShopierClient(cfg config.Shopier) *ShopierClient {
	return &ShopierClient{cfg: cfg}
}

// currency 0 is TRY in the provider's protocol.
const currencyTRY = "0"

func (c *ShopierClient) BuildPaymentForm(order *domain.Order) (*PaymentSession, error) {
	if c.cfg.APIKey == "" || c.cfg.APISecret == "" {
		return nil, ErrNotConfigured
	}

	randomNr, err := randomNr()
	if err != nil {
		return nil, fmt.Errorf("generating random nr: %w", err)
	}

	orderID := strconv.FormatInt(order.ID, 10)
	amount := FormatAmount(order.TotalSum)

	firstName, lastName := splitName(order.Customer.Name)

	titles := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		titles = append(titles, item.Title)
	}

	fields := map[string]string{
		"API_key":           c.cfg.APIKey,
		"website_index":     c.cfg.WebsiteIndex,
		"platform_order_id": orderID,
		"product_name":      strings.Join(titles, ", "),
		"product_type":      "1",
		"buyer_name":        firstName,
		"buyer_surname":     lastName,
		"buyer_email":       order.Customer.Email,
		"buyer_phone":       order.Customer.Phone,
		"buyer_id_nr":       order.Customer.TCNo,
		"billing_address":   order.Shipping.FullAddress,
		"billing_city":      order.Shipping.City,
		"billing_postcode":  order.Shipping.PostalCode,
		"shipping_address":  order.Shipping.FullAddress,
		"shipping_city":     order.Shipping.City,
		"shipping_postcode": order.Shipping.PostalCode,
		"total_order_value": amount,
		"currency":          currencyTRY,
		"platform":          "0",
		"is_in_frame":       "0",
		"current_language":  "0",
		"modul_version":     "1.0.4",
		"random_nr":         randomNr,
	}

	fields["signature"] = c.sign(randomNr + orderID + amount + currencyTRY)

	return &PaymentSession{
		OrderID:     order.ID,
		FormData:    fields,
		RedirectURL: c.cfg.PaymentURL,
	}, nil
}

// VerifyCallback checks the provider's signature over the callback fields
// and reports whether the payment succeeded. The verdict is trusted only
// when the signature matches.
func (c *ShopierClient) VerifyCallback(fields map[string]string) (*CallbackResult, error) {
	if c.cfg.APISecret == "" {
		return nil, ErrNotConfigured
	}

	orderIDStr := fields["platform_order_id"]
	randomNr := fields["random_nr"]
	signature := fields["signature"]

	if orderIDStr == "" || randomNr == "" || signature == "" {
		return nil, ErrBadCallback
	}

	expected := c.sign(randomNr + orderIDStr)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, ErrBadSignature
	}

	orderID, err := strconv.ParseInt(orderIDStr, 10, 64)
	if err != nil {
		return nil, ErrBadCallback
	}

	return &CallbackResult{
		OrderID:   orderID,
		PaymentID: fields["payment_id"],
		Success:   fields["status"] == "success",
	}, nil
}

func (c *ShopierClient) sign(data string) string {
	mac := hmac.New(sha256.New, []byte(c.cfg.APISecret))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// FormatAmount renders kuruş as the decimal lira string the provider
// expects, e.g. 45000 -> "450.00".
func FormatAmount(kurus int64) string {
	return fmt.Sprintf("%d.%02d", kurus/100, kurus%100)
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return full, ""
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

func randomNr() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
