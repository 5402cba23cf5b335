package liteapi

import (
	"context"
	"encoding/json"

	"github.com/gaborage/go-liteapi/transport"
)

// Occupancy describes the guests of one room.
type Occupancy struct {
	Rooms    int   `json:"rooms,omitempty"`
	Adults   int   `json:"adults"`
	Children []int `json:"children,omitempty"`
}

// RateSearch is the body of a rate search. Dates use YYYY-MM-DD.
type RateSearch struct {
	HotelIDs         []string    `json:"hotelIds,omitempty"`
	CountryCode      string      `json:"countryCode,omitempty"`
	CityName         string      `json:"cityName,omitempty"`
	PlaceID          string      `json:"placeId,omitempty"`
	AISearch         string      `json:"aiSearch,omitempty"`
	Checkin          string      `json:"checkin"`
	Checkout         string      `json:"checkout"`
	Occupancies      []Occupancy `json:"occupancies"`
	Currency         string      `json:"currency,omitempty"`
	GuestNationality string      `json:"guestNationality,omitempty"`
	Timeout          int         `json:"timeout,omitempty"`
	Limit            int         `json:"limit,omitempty"`
	RoomMapping      bool        `json:"roomMapping,omitempty"`
}

// Rates wraps rate search.
type Rates struct {
	caller transport.Caller
}

func NewRates(caller transport.Caller) *Rates {
	return &Rates{caller: caller}
}

// FullRates returns every available room with rates and cancellation policies.
func (r *Rates) FullRates(ctx context.Context, search RateSearch) (json.RawMessage, error) {
	return r.caller.Post(ctx, "hotels/rates", search)
}

// MinRates returns only the cheapest rate per hotel.
func (r *Rates) MinRates(ctx context.Context, search RateSearch) (json.RawMessage, error) {
	return r.caller.Post(ctx, "hotels/min-rates", search)
}
