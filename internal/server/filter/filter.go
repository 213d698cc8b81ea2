// Package filter holds the in-memory existence filter used to skip the
// duplicate-email lookup for addresses that were certainly never registered.
//
// The filter never reports a false negative for an added email. It may report
// false positives, so a positive answer must always be confirmed against the
// credential store. It is rebuilt from the store on every start.
package filter

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	DefaultCapacity          = 1000
	DefaultFalsePositiveRate = 0.01
)

// EmailLister is the part of the credential store needed for warm-up.
type EmailLister interface {
	ListEmails(ctx context.Context) ([]string, error)
}

// EmailFilter is a bloom filter over email strings, safe for concurrent use.
type EmailFilter struct {
	mu sync.RWMutex
	bf *bloom.BloomFilter
}

// New sizes the filter for capacity emails at the target false-positive rate.
// Non-positive arguments fall back to the defaults.
func New(capacity uint, fpRate float64) *EmailFilter {
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFalsePositiveRate
	}
	return &EmailFilter{bf: bloom.NewWithEstimates(capacity, fpRate)}
}

// MightContain reports whether email may have been added.
func (f *EmailFilter) MightContain(email string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.TestString(email)
}

// Add inserts email. Adding the same email twice is a no-op.
func (f *EmailFilter) Add(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bf.AddString(email)
}

// Warm loads every email from src into the filter and returns how many were
// added. On error the filter keeps whatever was added before the failure.
func (f *EmailFilter) Warm(ctx context.Context, src EmailLister) (int, error) {
	emails, err := src.ListEmails(ctx)
	if err != nil {
		return 0, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range emails {
		f.bf.AddString(e)
	}
	return len(emails), nil
}

// Cap returns the size of the underlying bit set.
func (f *EmailFilter) Cap() uint {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bf.Cap()
}
