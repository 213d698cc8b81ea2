package filter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeLister struct {
	emails []string
	err    error
}

func (f fakeLister) ListEmails(context.Context) ([]string, error) {
	return f.emails, f.err
}

func TestEmailFilter_NoFalseNegatives(t *testing.T) {
	f := New(DefaultCapacity, DefaultFalsePositiveRate)

	emails := make([]string, 0, 500)
	for i := 0; i < 500; i++ {
		e := fmt.Sprintf("user%d@example.com", i)
		emails = append(emails, e)
		f.Add(e)
	}

	for _, e := range emails {
		assert.True(t, f.MightContain(e), "false negative for %s", e)
	}
}

func TestEmailFilter_EmptyFilterRejects(t *testing.T) {
	f := New(DefaultCapacity, DefaultFalsePositiveRate)
	assert.False(t, f.MightContain("nobody@example.com"))
}

func TestEmailFilter_AddIsIdempotent(t *testing.T) {
	f := New(10, 0.01)
	f.Add("a@example.com")
	f.Add("a@example.com")
	assert.True(t, f.MightContain("a@example.com"))
}

func TestEmailFilter_FalsePositiveRateIsBounded(t *testing.T) {
	f := New(1000, 0.01)
	for i := 0; i < 1000; i++ {
		f.Add(fmt.Sprintf("member%d@example.com", i))
	}

	var positives int
	const probes = 10000
	for i := 0; i < probes; i++ {
		if f.MightContain(fmt.Sprintf("stranger%d@example.org", i)) {
			positives++
		}
	}

	// target is 1%; allow generous slack so the test is not flaky
	assert.Less(t, positives, probes/20)
}

func TestNew_FallsBackToDefaults(t *testing.T) {
	want := New(DefaultCapacity, DefaultFalsePositiveRate).Cap()

	assert.Equal(t, want, New(0, 0).Cap())
	assert.Equal(t, want, New(0, 1.5).Cap())
}

func TestEmailFilter_Warm(t *testing.T) {
	f := New(DefaultCapacity, DefaultFalsePositiveRate)
	src := fakeLister{emails: []string{"a@example.com", "b@example.com", "c@example.com"}}

	n, err := f.Warm(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, e := range src.emails {
		assert.True(t, f.MightContain(e))
	}
}

func TestEmailFilter_WarmError(t *testing.T) {
	f := New(DefaultCapacity, DefaultFalsePositiveRate)

	n, err := f.Warm(context.Background(), fakeLister{err: errors.New("db down")})
	require.Error(t, err)
	assert.Zero(t, n)
}

func TestEmailFilter_ConcurrentAddAndCheck(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := New(DefaultCapacity, DefaultFalsePositiveRate)

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				e := fmt.Sprintf("w%d-%d@example.com", w, i)
				f.Add(e)
				if !f.MightContain(e) {
					t.Errorf("false negative right after add: %s", e)
				}
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = f.MightContain(fmt.Sprintf("reader-%d@example.com", i))
			}
		}()
	}
	wg.Wait()

	for w := 0; w < writers; w++ {
		for i := 0; i < perWriter; i++ {
			assert.True(t, f.MightContain(fmt.Sprintf("w%d-%d@example.com", w, i)))
		}
	}
}
