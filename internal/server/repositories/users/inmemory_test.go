package users

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

func TestInMemoryRepository_CreateAndFind(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "a@example.com", UserName: "alice", PasswordHash: "h"}))

	got, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInMemoryRepository_DuplicateEmail(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "a@example.com", UserName: "alice", PasswordHash: "h"}))
	err := repo.Create(ctx, &models.User{Email: "a@example.com", UserName: "other", PasswordHash: "h2"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	got, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName, "first record must survive")
}

func TestInMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "a@example.com", UserName: "alice", PasswordHash: "h"}))

	got, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	got.UserName = "mallory"

	again, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", again.UserName)
}

func TestInMemoryRepository_Lists(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	for _, e := range []string{"c@example.com", "a@example.com", "b@example.com"} {
		require.NoError(t, repo.Create(ctx, &models.User{Email: e, UserName: "user", PasswordHash: "h"}))
	}

	emails, err := repo.ListEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, emails)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a@example.com", all[0].Email)
}

func TestInMemoryRepository_ConcurrentCreateSameEmail(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	const n = 32
	var ok, dup atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, &models.User{Email: "race@example.com", UserName: "racer", PasswordHash: "h"})
			switch {
			case err == nil:
				ok.Add(1)
			case assert.ErrorIs(t, err, common.ErrorAlreadyExists):
				dup.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(n-1), dup.Load())
}

func TestInMemoryRepository_CancelledContext(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, repo.Create(ctx, &models.User{Email: "a@example.com"}))
	_, err := repo.FindByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, context.Canceled)
}
