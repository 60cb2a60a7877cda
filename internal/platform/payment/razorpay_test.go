package payment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cocoa_backend/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderClient struct {
	calls    int
	lastData map[string]interface{}
	resp     map[string]interface{}
	err      error
}

func (f *fakeOrderClient) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	f.calls++
	f.lastData = data
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestOpenPaymentOrderRejectsNonPositiveBeforeGatewayCall(t *testing.T) {
	client := &fakeOrderClient{}
	gw := NewGateway(client, "rzp_test_key", "secret", "rcpt_")

	for _, amount := range []float64{-5, 0, 0.001} {
		_, err := gw.OpenPaymentOrder(context.Background(), amount, "INR")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrValidation, "amount %v", amount)
	}
	assert.Zero(t, client.calls)
}

func TestOpenPaymentOrderSendsMinorUnits(t *testing.T) {
	client := &fakeOrderClient{resp: map[string]interface{}{
		"id":       "order_Nx1",
		"amount":   float64(1999),
		"currency": "INR",
		"status":   "created",
	}}
	gw := NewGateway(client, "rzp_test_key", "secret", "rcpt_")

	order, err := gw.OpenPaymentOrder(context.Background(), 19.99, "INR")
	require.NoError(t, err)

	assert.Equal(t, &Order{ID: "order_Nx1", Amount: 1999, Currency: "INR"}, order)
	assert.Equal(t, int64(1999), client.lastData["amount"])
	assert.Equal(t, "INR", client.lastData["currency"])
	receipt, _ := client.lastData["receipt"].(string)
	assert.True(t, strings.HasPrefix(receipt, "rcpt_"))
	assert.LessOrEqual(t, len(receipt), 40)
}

func TestToMinorUnitsTruncates(t *testing.T) {
	assert.Equal(t, int64(1000), ToMinorUnits(10))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(49999), ToMinorUnits(499.999))
	assert.Equal(t, int64(1), ToMinorUnits(0.019))
}

func TestOpenPaymentOrderHidesGatewayError(t *testing.T) {
	client := &fakeOrderClient{err: errors.New("BAD_REQUEST_ERROR: The api key provided is invalid")}
	gw := NewGateway(client, "rzp_test_key", "secret", "rcpt_")

	_, err := gw.OpenPaymentOrder(context.Background(), 10, "INR")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrPaymentGateway)
	assert.NotContains(t, common.PublicMessage(err), "api key")
}

func TestOpenPaymentOrderWithoutCredentials(t *testing.T) {
	client := &fakeOrderClient{}
	gw := NewGateway(client, "", "", "rcpt_")

	_, err := gw.OpenPaymentOrder(context.Background(), 10, "INR")
	assert.ErrorIs(t, err, common.ErrPaymentGateway)
	assert.Zero(t, client.calls)
}

func TestVerifyCallback(t *testing.T) {
	const secret = "gateway-key-secret"
	gw := NewGateway(&fakeOrderClient{}, "rzp_test_key", secret, "")

	oid, pid := "order_Nx1", "pay_Ab9"
	sig := sign(secret, oid, pid)

	assert.True(t, gw.VerifyCallback(oid, pid, sig))

	flip := func(s string, i int) string {
		c := byte('0')
		if s[i] == '0' {
			c = '1'
		}
		return s[:i] + string(c) + s[i+1:]
	}
	for i := range sig {
		assert.False(t, gw.VerifyCallback(oid, pid, flip(sig, i)), "signature position %d", i)
	}
	for i := range oid {
		assert.False(t, gw.VerifyCallback(flip(oid, i), pid, sig), "order id position %d", i)
	}
	for i := range pid {
		assert.False(t, gw.VerifyCallback(oid, flip(pid, i), sig), "payment id position %d", i)
	}

	assert.False(t, gw.VerifyCallback(oid, pid, strings.ToUpper(sig)))
	assert.False(t, gw.VerifyCallback(oid, pid, ""))
}

func TestVerifyCallbackFailsClosedWithoutSecret(t *testing.T) {
	gw := NewGateway(&fakeOrderClient{}, "rzp_test_key", "", "")

	assert.False(t, gw.SecretConfigured())
	// the digest an attacker would compute for an empty key
	assert.False(t, gw.VerifyCallback("order_1", "pay_1", sign("", "order_1", "pay_1")))
}
