// Package category keeps the ordered list of tracked category URLs.
package category

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var ErrOutOfRange = errors.New("index out of range")

type Registry struct {
	mu   sync.RWMutex
	urls []string
}

func NewRegistry(urls ...string) *Registry {
	r := &Registry{urls: make([]string, 0, len(urls))}
	for _, u := range urls {
		r.Add(u)
	}
	return r
}

// Add appends url unless it is already present. It reports whether url was
// added.
func (r *Registry) Add(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.urls, url) {
		return false
	}
	r.urls = append(r.urls, url)
	return true
}

// List returns a copy of the urls in insertion order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.urls)
}

// Remove deletes the entry at the 1-based index and returns its url.
func (r *Registry) Remove(index int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 1 || index > len(r.urls) {
		return "", fmt.Errorf("%w: %d not in 1..%d", ErrOutOfRange, index, len(r.urls))
	}
	url := r.urls[index-1]
	r.urls = slices.Delete(r.urls, index-1, index)
	return url, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.urls)
}
