package wallet

import (
	"strings"

	sq "github.com/square/square-go-sdk"
	sqcheckout "github.com/square/square-go-sdk/checkout"
)

// PaymentLink is the provider-neutral result handed back to checkout.
type PaymentLink struct {
	ID  string
	URL string
}

// PaymentLinkParams contains the fields required to mint a hosted payment link.
type PaymentLinkParams struct {
	OrderRef       string
	Description    string
	AmountCents    int64
	Currency       string
	LocationID     string
	IdempotencyKey string
}

func (p PaymentLinkParams) toProviderRequest(idempotencyKey, redirectURL string) *sqcheckout.CreatePaymentLinkRequest {
	req := &sqcheckout.CreatePaymentLinkRequest{
		IdempotencyKey: ptrString(idempotencyKey),
	}
	if trimmed := strings.TrimSpace(p.Description); trimmed != "" {
		req.Description = ptrString(trimmed)
	}
	name := strings.TrimSpace(p.OrderRef)
	if name == "" {
		name = "atelier order"
	}
	req.QuickPay = &sq.QuickPay{
		Name:       name,
		LocationID: p.LocationID,
		PriceMoney: moneyPtr(p.AmountCents, p.Currency),
	}
	if trimmed := strings.TrimSpace(redirectURL); trimmed != "" {
		req.CheckoutOptions = &sq.CheckoutOptions{
			RedirectURL: ptrString(trimmed),
		}
	}
	return req
}

func ptrString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func int64Ptr(value int64) *int64 {
	return &value
}

func currencyPtr(code string) *sq.Currency {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		trimmed = "USD"
	}
	c := sq.Currency(trimmed)
	return &c
}

func moneyPtr(amount int64, currency string) *sq.Money {
	if amount == 0 {
		return nil
	}
	return &sq.Money{
		Amount:   int64Ptr(amount),
		Currency: currencyPtr(currency),
	}
}
