// internal/services/locking_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"

	"github.com/shopsmith/storefront/internal/models"
)

// The stock and preorder write paths depend on the product row being locked
// for the duration of the transaction; this asserts the lock clause actually
// reaches the generated SQL.
func TestLockForUpdateEmitsLockingClause(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	var product models.Product
	stmt := lockForUpdate(db).First(&product, "id = ?", uuid.New()).Statement

	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")
}

func TestPlainQueryHasNoLockingClause(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	var product models.Product
	stmt := db.First(&product, "id = ?", uuid.New()).Statement

	assert.NotContains(t, stmt.SQL.String(), "FOR UPDATE")
}
