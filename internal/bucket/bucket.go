// Package bucket groups prices into labelled half-open ranges for stock reports.
package bucket

import (
	"errors"
	"fmt"
)

var ErrInvalidTable = errors.New("invalid bucket table")

// Bucket is the half-open price range [Low, High).
type Bucket struct {
	Low  int `yaml:"low"`
	High int `yaml:"high"`
}

func (b Bucket) Contains(price int) bool {
	return b.Low <= price && price < b.High
}

func (b Bucket) Label() string {
	if b.Low == 0 {
		return fmt.Sprintf("Below ₹%d", b.High)
	}
	return fmt.Sprintf("₹%d–₹%d", b.Low, b.High)
}

// Table is an ascending, non-overlapping list of buckets.
type Table []Bucket

func Default() Table {
	return Table{
		{Low: 0, High: 500},
		{Low: 500, High: 1000},
		{Low: 1000, High: 2000},
		{Low: 2000, High: 3000},
	}
}

func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no buckets", ErrInvalidTable)
	}
	for i, b := range t {
		if b.Low < 0 || b.Low >= b.High {
			return fmt.Errorf("%w: bucket %d has range [%d, %d)", ErrInvalidTable, i+1, b.Low, b.High)
		}
		if i > 0 && b.Low < t[i-1].High {
			return fmt.Errorf("%w: bucket %d overlaps or precedes bucket %d", ErrInvalidTable, i+1, i)
		}
	}
	return nil
}

// Label returns the label of the bucket containing price. Prices outside
// every bucket return false.
func (t Table) Label(price int) (string, bool) {
	for _, b := range t {
		if b.Contains(price) {
			return b.Label(), true
		}
	}
	return "", false
}

type Count struct {
	Label string
	Count int
}

// Aggregate counts prices per bucket. Buckets are returned in the order in
// which their first price appears, empty buckets are left out and prices
// outside the table are dropped.
func (t Table) Aggregate(prices []int) []Count {
	res := make([]Count, 0, len(t))
	pos := make(map[int]int, len(t))
	for _, p := range prices {
		for i, b := range t {
			if !b.Contains(p) {
				continue
			}
			j, ok := pos[i]
			if !ok {
				j = len(res)
				pos[i] = j
				res = append(res, Count{Label: b.Label()})
			}
			res[j].Count++
			break
		}
	}
	return res
}
