package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentGateway is the capability this core requires from the external
// payment provider. Order creation and signature formats stay behind it.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
}
