package liteapi

import (
	"context"
	"encoding/json"

	"github.com/gaborage/go-liteapi/transport"
)

// Voucher is the body of a voucher create or update.
type Voucher struct {
	VoucherCode           string  `json:"voucherCode,omitempty"`
	DiscountType          string  `json:"discountType,omitempty"`
	DiscountValue         float64 `json:"discountValue,omitempty"`
	MinimumSpend          float64 `json:"minimumSpend,omitempty"`
	MaximumDiscountAmount float64 `json:"maximumDiscountAmount,omitempty"`
	Currency              string  `json:"currency,omitempty"`
	ValidityStart         string  `json:"validityStart,omitempty"`
	ValidityEnd           string  `json:"validityEnd,omitempty"`
	UsagesLimit           int     `json:"usagesLimit,omitempty"`
	Status                string  `json:"status,omitempty"`
}

// Vouchers wraps voucher management.
type Vouchers struct {
	caller transport.Caller
}

func NewVouchers(caller transport.Caller) *Vouchers {
	return &Vouchers{caller: caller}
}

func (v *Vouchers) List(ctx context.Context) (json.RawMessage, error) {
	return v.caller.Get(ctx, "vouchers", nil)
}

func (v *Vouchers) Get(ctx context.Context, voucherID string) (json.RawMessage, error) {
	return v.caller.Get(ctx, pathID("vouchers", voucherID), nil)
}

func (v *Vouchers) Create(ctx context.Context, voucher Voucher) (json.RawMessage, error) {
	return v.caller.Post(ctx, "vouchers", voucher)
}

func (v *Vouchers) Update(ctx context.Context, voucherID string, voucher Voucher) (json.RawMessage, error) {
	return v.caller.Put(ctx, pathID("vouchers", voucherID), voucher)
}

// UpdateStatus switches a voucher between states such as active and inactive.
func (v *Vouchers) UpdateStatus(ctx context.Context, voucherID, status string) (json.RawMessage, error) {
	return v.caller.Put(ctx, pathID("vouchers", voucherID, "status"), map[string]string{"status": status})
}
