package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securex/securex/pkg/models"
	"github.com/securex/securex/pkg/store/storetest"
)

func TestStore(t *testing.T) {
	storetest.RunStoreTests(t, func(t *testing.T) models.Store {
		return NewStore()
	})
}

func TestStoreConcurrentWrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateDocument(ctx, &models.Document{Name: "doc", Text: "text"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	docs, err := s.ListDocuments(ctx, 100, 0)
	require.NoError(t, err)
	assert.Len(t, docs, 50)
}
