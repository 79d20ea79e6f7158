package queries_test

import (
	"testing"
	"time"

	"fooddispatch/internal/core/application/usecases/queries"
	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetEarningsSummaryQuery(t *testing.T) {
	now := time.Now().UTC()

	query, err := queries.NewGetEarningsSummaryQuery(kernel.NewUUID(), now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.NoError(t, query.Validate())

	_, err = queries.NewGetEarningsSummaryQuery(kernel.UUID{}, now.Add(-time.Hour), now)
	require.Error(t, err)

	// Empty and inverted windows are rejected.
	_, err = queries.NewGetEarningsSummaryQuery(kernel.NewUUID(), now, now)
	require.Error(t, err)
	_, err = queries.NewGetEarningsSummaryQuery(kernel.NewUUID(), now, now.Add(-time.Hour))
	require.Error(t, err)

	var zero queries.GetEarningsSummaryQuery
	require.ErrorIs(t, zero.Validate(), queries.ErrGetEarningsSummaryQueryIsNotConstructed)
}

func TestNewGetDriverEarningsQuery(t *testing.T) {
	query, err := queries.NewGetDriverEarningsQuery(kernel.NewUUID(), 0, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 1, query.Page())
	assert.Equal(t, 20, query.PageSize())
	assert.Equal(t, queries.OrderingTimestampDesc, query.Ordering())

	query, err = queries.NewGetDriverEarningsQuery(kernel.NewUUID(), 3, 50, queries.OrderingTimestampAsc)
	require.NoError(t, err)
	assert.Equal(t, 3, query.Page())
	assert.Equal(t, 50, query.PageSize())

	_, err = queries.NewGetDriverEarningsQuery(kernel.NewUUID(), 1, 10, "-amount")
	require.Error(t, err)

	var zero queries.GetDriverEarningsQuery
	require.ErrorIs(t, zero.Validate(), queries.ErrGetDriverEarningsQueryIsNotConstructed)
}

func TestNewGetActiveOrdersQuery(t *testing.T) {
	query := queries.NewGetActiveOrdersQuery()
	require.NoError(t, query.Validate())

	var zero queries.GetActiveOrdersQuery
	require.ErrorIs(t, zero.Validate(), queries.ErrGetActiveOrdersQueryIsNotConstructed)
}
