package repository

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-show-booking/internal/model"
)

func TestBookingLedger_AppendKeepsOrder(t *testing.T) {
	l := NewBookingLedger()
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.List())

	for i := 1; i <= 3; i++ {
		require.NoError(t, l.Append(model.Booking{Ref: fmt.Sprintf("BK-%d", i), Seats: i}))
	}

	list := l.List()
	require.Len(t, list, 3)
	for i, b := range list {
		assert.Equal(t, fmt.Sprintf("BK-%d", i+1), b.Ref)
	}
	assert.Equal(t, 3, l.Len())
}

func TestBookingLedger_RejectsDuplicateRef(t *testing.T) {
	l := NewBookingLedger()
	require.NoError(t, l.Append(model.Booking{Ref: "BK-1"}))

	err := l.Append(model.Booking{Ref: "BK-1", Name: "again"})
	assert.ErrorIs(t, err, ErrDuplicateRef)
	assert.Equal(t, 1, l.Len())
}

func TestBookingLedger_ListIsACopy(t *testing.T) {
	l := NewBookingLedger()
	require.NoError(t, l.Append(model.Booking{Ref: "BK-1", Name: "Ada"}))

	list := l.List()
	list[0].Name = "changed"
	assert.Equal(t, "Ada", l.List()[0].Name)
}

func TestBookingLedger_ConcurrentAppends(t *testing.T) {
	l := NewBookingLedger()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, l.Append(model.Booking{Ref: fmt.Sprintf("BK-%d", i)}))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, l.Len())
	seen := make(map[string]bool, n)
	for _, b := range l.List() {
		assert.False(t, seen[b.Ref], "duplicate %s", b.Ref)
		seen[b.Ref] = true
	}
}
