package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securex/securex/pkg/models"
)

func TestPurgeDeleted(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.CreateDocument(testCtx, &models.Document{Name: "fir.txt", Text: "Ravi Kumar"})
	require.NoError(t, err)
	require.NoError(t, s.DeleteDocument(testCtx, doc.UUID))

	err = s.PurgeDeleted(testCtx)
	assert.NoError(t, err, "purgeDeleted should not return an error")

	for _, schema := range tableList {
		count, err := testDB.NewSelect().
			Model(schema).
			WhereDeleted().
			Count(testCtx)
		assert.NoError(t, err)
		assert.Zero(t, count, "purgeDeleted should delete all soft deleted rows")
	}
}
