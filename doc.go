// Package liteapi is a client for the LiteAPI hotel booking service.
//
// A Client owns up to three transports, one per destination:
//
//	data      https://api.liteapi.travel/v3.0   static data, rates, guests, vouchers
//	booking   https://book.liteapi.travel/v3.0  prebook, book, booking management
//	dashboard https://da.liteapi.travel         analytics
//
// Each transport is created on first use and reused for the lifetime of the
// Client. Calls return the "data" member of the response envelope as raw JSON;
// use Decode to unmarshal it into your own types.
//
// Basic usage:
//
//	client, err := liteapi.NewFromEnv()
//	if err != nil {
//		return err
//	}
//	raw, err := client.StaticData().Hotel(ctx, "lp1897", liteapi.HotelOptions{})
//	if errors.Is(err, transport.ErrNotFound) {
//		// ...
//	}
//	hotel, err := liteapi.Decode[MyHotel](raw)
package liteapi
