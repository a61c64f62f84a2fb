package sandbox

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	m := NewManager(newScope(), nil)

	s := m.Create()
	_, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, m.Count())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, m.Delete(s.ID()))
	assert.ErrorIs(t, m.Delete(s.ID()), ErrSessionNotFound)
	assert.Equal(t, 0, m.Count())
}

func TestManager_DeleteDiscardsDocuments(t *testing.T) {
	m := NewManager(newScope(), nil)
	s := m.Create()

	_, err := s.SetupOrganization(context.Background(), "example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, s.registry.Len())

	require.NoError(t, m.Delete(s.ID()))
	assert.Equal(t, 0, s.registry.Len())
	assert.Equal(t, StepOrganizationSetup, s.State().Step)
	assert.Nil(t, s.State().Organization)
}

func TestManager_Concurrent(t *testing.T) {
	m := NewManager(newScope(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := m.Create()
			_, err := m.Get(s.ID())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, m.Count())
}
