package liteapi

import (
	"context"
	"encoding/json"

	"github.com/gaborage/go-liteapi/transport"
)

const defaultLanguage = "en"

// StaticData wraps the reference data endpoints.
type StaticData struct {
	caller transport.Caller
}

func NewStaticData(caller transport.Caller) *StaticData {
	return &StaticData{caller: caller}
}

// PlacesOptions narrows a place search. Language defaults to en.
type PlacesOptions struct {
	Type     string
	Language string
}

// HotelSearch selects hotels by location, ids, place or free text. Language
// defaults to en. Extra is merged into the query for parameters not modeled
// here.
type HotelSearch struct {
	CountryCode string
	CityName    string
	HotelIDs    []string
	PlaceID     string
	AISearch    string
	ChainIDs    []int
	Latitude    *float64
	Longitude   *float64
	Radius      int
	Limit       int
	Offset      int
	Language    string
	Extra       transport.Query
}

// HotelOptions tunes a hotel details lookup.
type HotelOptions struct {
	Language string
	Extra    transport.Query
}

// ReviewOptions tunes a review lookup.
type ReviewOptions struct {
	Limit        int
	Offset       int
	Timeout      int
	GetSentiment bool
	Extra        transport.Query
}

// Countries lists all countries with ISO-2 codes.
func (s *StaticData) Countries(ctx context.Context) (json.RawMessage, error) {
	return s.caller.Get(ctx, "data/countries", nil)
}

// Cities lists the cities of a country.
func (s *StaticData) Cities(ctx context.Context, countryCode string) (json.RawMessage, error) {
	return s.caller.Get(ctx, "data/cities", transport.Query{"countryCode": countryCode})
}

// Places searches places and areas by free text.
func (s *StaticData) Places(ctx context.Context, textQuery string, opts PlacesOptions) (json.RawMessage, error) {
	q := transport.Query{
		"textQuery": textQuery,
		"language":  orDefault(opts.Language, defaultLanguage),
	}
	setIf(q, "type", opts.Type)
	return s.caller.Get(ctx, "data/places", q)
}

func (s *StaticData) Currencies(ctx context.Context) (json.RawMessage, error) {
	return s.caller.Get(ctx, "data/currencies", nil)
}

func (s *StaticData) IATACodes(ctx context.Context) (json.RawMessage, error) {
	return s.caller.Get(ctx, "data/iataCodes", nil)
}

func (s *StaticData) HotelFacilities(ctx context.Context) (json.RawMessage, error) {
	return s.caller.Get(ctx, "data/facilities", nil)
}

func (s *StaticData) HotelTypes(ctx context.Context) (json.RawMessage, error) {
	return s.caller.Get(ctx, "data/hotelTypes", nil)
}

func (s *StaticData) HotelChains(ctx context.Context) (json.RawMessage, error) {
	return s.caller.Get(ctx, "data/chains", nil)
}

// Hotels searches the hotel catalogue.
func (s *StaticData) Hotels(ctx context.Context, search HotelSearch) (json.RawMessage, error) {
	return s.caller.Get(ctx, "data/hotels", search.query())
}

// Hotel returns the details of one hotel.
func (s *StaticData) Hotel(ctx context.Context, hotelID string, opts HotelOptions) (json.RawMessage, error) {
	q := merge(transport.Query{"hotelId": hotelID}, opts.Extra)
	setIf(q, "language", opts.Language)
	return s.caller.Get(ctx, "data/hotel", q)
}

// HotelReviews returns reviews of one hotel, optionally with sentiment analysis.
func (s *StaticData) HotelReviews(ctx context.Context, hotelID string, opts ReviewOptions) (json.RawMessage, error) {
	q := merge(transport.Query{"hotelId": hotelID}, opts.Extra)
	setPositive(q, "limit", opts.Limit)
	setPositive(q, "offset", opts.Offset)
	setPositive(q, "timeout", opts.Timeout)
	if opts.GetSentiment {
		q["getSentiment"] = true
	}
	return s.caller.Get(ctx, "data/reviews", q)
}

func (h HotelSearch) query() transport.Query {
	q := merge(transport.Query{"language": orDefault(h.Language, defaultLanguage)}, h.Extra)
	setIf(q, "countryCode", h.CountryCode)
	setIf(q, "cityName", h.CityName)
	setIf(q, "placeId", h.PlaceID)
	setIf(q, "aiSearch", h.AISearch)
	if len(h.HotelIDs) > 0 {
		q["hotelIds"] = h.HotelIDs
	}
	if len(h.ChainIDs) > 0 {
		q["chainIds"] = h.ChainIDs
	}
	if h.Latitude != nil {
		q["latitude"] = *h.Latitude
	}
	if h.Longitude != nil {
		q["longitude"] = *h.Longitude
	}
	setPositive(q, "radius", h.Radius)
	setPositive(q, "limit", h.Limit)
	setPositive(q, "offset", h.Offset)
	return q
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func setIf(q transport.Query, key, value string) {
	if value != "" {
		q[key] = value
	}
}

func setPositive(q transport.Query, key string, value int) {
	if value > 0 {
		q[key] = value
	}
}

// merge copies extra into q without overwriting keys already set by the caller.
func merge(q, extra transport.Query) transport.Query {
	for k, v := range extra {
		if _, ok := q[k]; !ok {
			q[k] = v
		}
	}
	return q
}
