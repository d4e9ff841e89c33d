package model

// Show is a bookable catalog entry: a movie screening with a fixed
// display time and a per-seat price.  Shows are created from static
// configuration at process start and never change afterwards.
//
// Fields:
//
//	ID    – stable, unique catalog identifier.
//	Title – movie title.
//	Time  – display label such as "7:00 PM" (not parsed).
//	Price – price of one seat in whole currency units.
type Show struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Time  string `json:"time"`
	Price int    `json:"price"`
}
