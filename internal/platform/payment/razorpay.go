// Package payment talks to the Razorpay order API and checks the signature
// Razorpay attaches to a completed checkout.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cocoa_backend/internal/common"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
)

// OrderClient is the slice of the Razorpay SDK we use. *resources.Order satisfies it.
type OrderClient interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Order is a gateway side order. Amount is in minor units.
type Order struct {
	ID       string
	Amount   int64
	Currency string
}

type Gateway struct {
	client        OrderClient
	keyID         string
	secret        string
	receiptPrefix string
}

func NewRazorpayGateway(keyID, secret, receiptPrefix string) *Gateway {
	client := razorpay.NewClient(keyID, secret)
	return NewGateway(client.Order, keyID, secret, receiptPrefix)
}

func NewGateway(client OrderClient, keyID, secret, receiptPrefix string) *Gateway {
	return &Gateway{client: client, keyID: keyID, secret: secret, receiptPrefix: receiptPrefix}
}

func (g *Gateway) KeyID() string { return g.keyID }

func (g *Gateway) SecretConfigured() bool { return g.secret != "" }

// ToMinorUnits converts a major unit amount to minor units, truncating
// anything below one minor unit. The small epsilon absorbs binary float
// error so 19.99 becomes 1999 and not 1998.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Floor(amount*100 + 1e-6))
}

// OpenPaymentOrder creates an order with the gateway for amount, given in the
// major unit of currency. No currency conversion happens here.
func (g *Gateway) OpenPaymentOrder(ctx context.Context, amount float64, currency string) (*Order, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, common.NewError(common.ErrValidation, "Invalid amount")
	}
	minor := ToMinorUnits(amount)
	if minor <= 0 {
		return nil, common.NewError(common.ErrValidation, "Invalid amount")
	}
	if g.keyID == "" || g.secret == "" {
		return nil, fmt.Errorf("%w: gateway credentials not configured", common.ErrPaymentGateway)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := g.client.Create(map[string]interface{}{
		"amount":   minor,
		"currency": currency,
		"receipt":  g.newReceipt(),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create order: %v", common.ErrPaymentGateway, err)
	}
	return parseOrder(body, minor, currency)
}

// razorpay caps receipts at 40 characters
func (g *Gateway) newReceipt() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	receipt := g.receiptPrefix + id
	if len(receipt) > 40 {
		receipt = receipt[:40]
	}
	return receipt
}

func parseOrder(body map[string]interface{}, minor int64, currency string) (*Order, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("%w: response has no order id", common.ErrPaymentGateway)
	}
	order := &Order{ID: id, Amount: minor, Currency: currency}
	if amt, ok := asInt64(body["amount"]); ok {
		order.Amount = amt
	}
	if cur, ok := body["currency"].(string); ok && cur != "" {
		order.Currency = cur
	}
	return order, nil
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

// VerifyCallback reports whether signature is the hex HMAC-SHA256 of
// "orderID|paymentID" under the key secret. A missing secret never verifies.
func (g *Gateway) VerifyCallback(orderID, paymentID, signature string) bool {
	if g.secret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	expected := sign(g.secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
