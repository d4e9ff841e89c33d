package repository

import (
	"fmt"

	"github.com/iliyamo/movie-show-booking/internal/model"
)

// DefaultShows returns the shows offered when no other catalog is
// configured.
func DefaultShows() []model.Show {
	return []model.Show{
		{ID: 1, Title: "Inception", Time: "7:00 PM", Price: 250},
		{ID: 2, Title: "Interstellar", Time: "9:00 PM", Price: 300},
		{ID: 3, Title: "Oppenheimer", Time: "6:30 PM", Price: 350},
	}
}

// ShowCatalog is the read-only list of bookable shows.  It is built once
// at startup and is safe for concurrent readers because nothing mutates it
// after construction.
type ShowCatalog struct {
	shows []model.Show
	index map[int]int // show id -> position in shows
}

// NewShowCatalog copies the given shows into a catalog, keeping their
// order.  It panics on duplicate ids since the catalog is static
// configuration.
func NewShowCatalog(shows []model.Show) *ShowCatalog {
	c := &ShowCatalog{
		shows: make([]model.Show, len(shows)),
		index: make(map[int]int, len(shows)),
	}
	copy(c.shows, shows)
	for i, s := range c.shows {
		if _, dup := c.index[s.ID]; dup {
			panic(fmt.Sprintf("duplicate show id %d in catalog", s.ID))
		}
		c.index[s.ID] = i
	}
	return c
}

// Find returns the show with the given id or ErrShowNotFound.
func (c *ShowCatalog) Find(id int) (model.Show, error) {
	i, ok := c.index[id]
	if !ok {
		return model.Show{}, ErrShowNotFound
	}
	return c.shows[i], nil
}

// Featured returns up to n shows in catalog order.
func (c *ShowCatalog) Featured(n int) []model.Show {
	if n < 0 {
		n = 0
	}
	if n > len(c.shows) {
		n = len(c.shows)
	}
	out := make([]model.Show, n)
	copy(out, c.shows[:n])
	return out
}

// All returns every show in catalog order.
func (c *ShowCatalog) All() []model.Show {
	return c.Featured(len(c.shows))
}
