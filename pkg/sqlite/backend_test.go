package sqlite

import (
	"testing"

	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/coffeeshop/pkg/types"
)

func TestNewBackend_ServesTheStores(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	shop := NewBackend(logger)

	require.NoError(t, shop.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	defer shop.Detach()

	require.NoError(t, shop.Seed())
	_, err := shop.Sales().Create(&types.Sale{
		Date: "2024-01-01", Time: "09:15", Total: decimal.RequireFromString("4.39"),
		Items: []types.SaleItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	summary, err := shop.Analytics().Summary()
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SaleCount)
	assert.NotEmpty(t, hook.AllEntries(), "backend logs through the supplied logger")
}

func TestNewBackend_NilLogger(t *testing.T) {
	shop := NewBackend(nil)
	_, err := shop.Categories().ListAll()
	assert.ErrorIs(t, err, types.ErrDetached)
}
