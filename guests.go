package liteapi

import (
	"context"
	"encoding/json"

	"github.com/gaborage/go-liteapi/transport"
)

// LoyaltySettings configures the guest loyalty program.
type LoyaltySettings struct {
	Status       string  `json:"status"`
	CashbackRate float64 `json:"cashbackRate"`
}

// Guests wraps guest and loyalty endpoints.
type Guests struct {
	caller transport.Caller
}

func NewGuests(caller transport.Caller) *Guests {
	return &Guests{caller: caller}
}

// Loyalty returns the loyalty program status.
func (g *Guests) Loyalty(ctx context.Context) (json.RawMessage, error) {
	return g.caller.Get(ctx, "guests/loyalty", nil)
}

func (g *Guests) EnableLoyalty(ctx context.Context, settings LoyaltySettings) (json.RawMessage, error) {
	return g.caller.Post(ctx, "guests/loyalty", settings)
}

func (g *Guests) UpdateLoyalty(ctx context.Context, settings LoyaltySettings) (json.RawMessage, error) {
	return g.caller.Put(ctx, "guests/loyalty", settings)
}

func (g *Guests) Guest(ctx context.Context, guestID string) (json.RawMessage, error) {
	return g.caller.Get(ctx, pathID("guests", guestID), nil)
}

func (g *Guests) GuestBookings(ctx context.Context, guestID string) (json.RawMessage, error) {
	return g.caller.Get(ctx, pathID("guests", guestID, "bookings"), nil)
}
