// Package stock extracts price and size availability from rendered category
// pages.
package stock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

var ErrPriceFormat = errors.New("price has no digits")

type Entry struct {
	Price int
	Sizes []string
}

type Outcome int

const (
	// NoProducts means the product selector matched nothing on the page.
	NoProducts Outcome = iota
	// Partial means some product elements had no usable price.
	Partial
	Complete
)

func (o Outcome) String() string {
	switch o {
	case NoProducts:
		return "no products"
	case Partial:
		return "partial"
	default:
		return "complete"
	}
}

// Snapshot is the result of parsing one page.
type Snapshot struct {
	Entries []Entry
	// Matched is the number of elements the product selector matched.
	Matched int
	// Skipped is the number of products whose price text held no digits.
	Skipped int
}

func (s Snapshot) Total() int { return len(s.Entries) }

func (s Snapshot) Outcome() Outcome {
	switch {
	case s.Matched == 0:
		return NoProducts
	case len(s.Entries) < s.Matched:
		return Partial
	default:
		return Complete
	}
}

func (s Snapshot) Prices() []int {
	prices := make([]int, 0, len(s.Entries))
	for _, e := range s.Entries {
		prices = append(prices, e.Price)
	}
	return prices
}

type Selectors struct {
	Product string `yaml:"product"`
	Price   string `yaml:"price"`
	Size    string `yaml:"size"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		Product: `[data-testid*='product'], .product-card`,
		Price:   `.price, .product-price`,
		Size:    `[data-testid*='size'], .size`,
	}
}

type Parser struct {
	product cascadia.Selector
	price   cascadia.Selector
	size    cascadia.Selector
}

func NewParser(sel Selectors) (*Parser, error) {
	product, err := cascadia.Compile(sel.Product)
	if err != nil {
		return nil, fmt.Errorf("product selector %q: %w", sel.Product, err)
	}
	price, err := cascadia.Compile(sel.Price)
	if err != nil {
		return nil, fmt.Errorf("price selector %q: %w", sel.Price, err)
	}
	size, err := cascadia.Compile(sel.Size)
	if err != nil {
		return nil, fmt.Errorf("size selector %q: %w", sel.Size, err)
	}

	return &Parser{
		product: product,
		price:   price,
		size:    size,
	}, nil
}

// Parse returns one entry per product that has a price, in document order.
// Products without a price element are ignored, products whose price holds no
// digits are counted as skipped.
func (p *Parser) Parse(html string) (Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Snapshot{}, fmt.Errorf("could not parse page: %w", err)
	}

	snap := Snapshot{Entries: make([]Entry, 0)}
	doc.FindMatcher(p.product).Each(func(i int, s *goquery.Selection) {
		snap.Matched++
		priceEl := s.FindMatcher(p.price).First()
		if priceEl.Length() == 0 {
			return
		}
		price, err := ParsePrice(priceEl.Text())
		if err != nil {
			snap.Skipped++
			return
		}

		sizes := make([]string, 0)
		s.FindMatcher(p.size).Each(func(_ int, size *goquery.Selection) {
			if txt := strings.TrimSpace(size.Text()); txt != "" {
				sizes = append(sizes, txt)
			}
		})
		snap.Entries = append(snap.Entries, Entry{
			Price: price,
			Sizes: sizes,
		})
	})

	return snap, nil
}

// ParsePrice keeps the ASCII digits of txt and reads them as an integer, so
// "₹1,299" becomes 1299.
func ParsePrice(txt string) (int, error) {
	var digits strings.Builder
	for _, r := range txt {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, fmt.Errorf("%w: %q", ErrPriceFormat, txt)
	}

	price, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrPriceFormat, txt, err)
	}
	return price, nil
}
