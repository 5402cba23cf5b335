package liteapi

import (
	"context"
	"encoding/json"

	"github.com/gaborage/go-liteapi/transport"
)

// PrebookRequest confirms availability and price of an offer.
type PrebookRequest struct {
	OfferID       string `json:"offerId"`
	UsePaymentSDK bool   `json:"usePaymentSdk,omitempty"`
}

// GuestInfo identifies the lead guest of a booking.
type GuestInfo struct {
	GuestFirstName string `json:"guestFirstName"`
	GuestLastName  string `json:"guestLastName"`
	GuestEmail     string `json:"guestEmail"`
}

// PaymentMethod carries card details. Never log it.
type PaymentMethod struct {
	HolderName string `json:"holderName"`
	CardNumber string `json:"cardNumber"`
	ExpireDate string `json:"expireDate"`
	CVC        string `json:"cvc"`
}

// BookRequest completes a prebooked offer.
type BookRequest struct {
	PrebookID       string         `json:"prebookId"`
	GuestInfo       GuestInfo      `json:"guestInfo"`
	PaymentMethod   *PaymentMethod `json:"paymentMethod,omitempty"`
	ClientReference string         `json:"clientReference,omitempty"`
}

// BookingFilter selects bookings to list.
type BookingFilter struct {
	ClientReference string
	GuestID         string
	Extra           transport.Query
}

// Bookings wraps the booking lifecycle. Its caller must target the booking API.
type Bookings struct {
	caller transport.Caller
}

func NewBookings(caller transport.Caller) *Bookings {
	return &Bookings{caller: caller}
}

func (b *Bookings) Prebook(ctx context.Context, req PrebookRequest) (json.RawMessage, error) {
	return b.caller.Post(ctx, "rates/prebook", req)
}

func (b *Bookings) Book(ctx context.Context, req BookRequest) (json.RawMessage, error) {
	return b.caller.Post(ctx, "rates/book", req)
}

// List returns the bookings matching filter.
func (b *Bookings) List(ctx context.Context, filter BookingFilter) (json.RawMessage, error) {
	q := merge(transport.Query{}, filter.Extra)
	setIf(q, "clientReference", filter.ClientReference)
	setIf(q, "guestId", filter.GuestID)
	return b.caller.Get(ctx, "bookings", q)
}

func (b *Bookings) Get(ctx context.Context, bookingID string) (json.RawMessage, error) {
	return b.caller.Get(ctx, pathID("bookings", bookingID), nil)
}

// Cancel cancels a booking.
func (b *Bookings) Cancel(ctx context.Context, bookingID string) (json.RawMessage, error) {
	return b.caller.Put(ctx, pathID("bookings", bookingID), nil)
}
