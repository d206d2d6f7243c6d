// Package storagetest содержит общий набор тестов для всех реализаций storage.Store
package storagetest

import (
	"context"
	"fmt"
	"sync"

	"taskManager/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreSuite struct {
	suite.Suite
	NewStore func() storage.Store

	store storage.Store
	ctx   context.Context
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *StoreSuite) TestGet_Missing() {
	value, ok, err := s.store.Get(s.ctx, "missing-key")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
	assert.Empty(s.T(), value)
}

func (s *StoreSuite) TestSetGet() {
	require.NoError(s.T(), s.store.Set(s.ctx, "tasks-data", `[{"id":"task-1"}]`))

	value, ok, err := s.store.Get(s.ctx, "tasks-data")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)
	assert.Equal(s.T(), `[{"id":"task-1"}]`, value)
}

func (s *StoreSuite) TestSet_Overwrites() {
	require.NoError(s.T(), s.store.Set(s.ctx, "k", "first"))
	require.NoError(s.T(), s.store.Set(s.ctx, "k", "second"))

	value, _, err := s.store.Get(s.ctx, "k")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "second", value)
}

func (s *StoreSuite) TestSet_EmptyValueIsPresent() {
	require.NoError(s.T(), s.store.Set(s.ctx, "empty", ""))

	value, ok, err := s.store.Get(s.ctx, "empty")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)
	assert.Empty(s.T(), value)
}

func (s *StoreSuite) TestDelete() {
	require.NoError(s.T(), s.store.Set(s.ctx, "k", "v"))
	require.NoError(s.T(), s.store.Delete(s.ctx, "k"))

	_, ok, err := s.store.Get(s.ctx, "k")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)

	// удаление отсутствующего ключа - не ошибка
	assert.NoError(s.T(), s.store.Delete(s.ctx, "k"))
}

func (s *StoreSuite) TestKeysAreIndependent() {
	require.NoError(s.T(), s.store.Set(s.ctx, "task-manager-users", "users"))
	require.NoError(s.T(), s.store.Set(s.ctx, "task-manager-current-user", "me"))

	users, _, err := s.store.Get(s.ctx, "task-manager-users")
	require.NoError(s.T(), err)
	current, _, err := s.store.Get(s.ctx, "task-manager-current-user")
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "users", users)
	assert.Equal(s.T(), "me", current)
}

func (s *StoreSuite) TestUnicodeValue() {
	value := `[{"title":"Купить молоко ☕"}]`
	require.NoError(s.T(), s.store.Set(s.ctx, "k", value))

	got, _, err := s.store.Get(s.ctx, "k")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), value, got)
}

func (s *StoreSuite) TestConcurrentSet() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(s.T(), s.store.Set(s.ctx, fmt.Sprintf("key-%d", i), fmt.Sprintf("value-%d", i)))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		value, ok, err := s.store.Get(s.ctx, fmt.Sprintf("key-%d", i))
		require.NoError(s.T(), err)
		assert.True(s.T(), ok)
		assert.Equal(s.T(), fmt.Sprintf("value-%d", i), value)
	}
}

func (s *StoreSuite) TestPing() {
	assert.NoError(s.T(), s.store.Ping(s.ctx))
}
