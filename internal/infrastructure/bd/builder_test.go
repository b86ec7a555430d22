package db

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claim-system/pkg/types"
)

var testColumns = map[string]string{
	"status":      "status",
	"mall":        "mall",
	"orderNumber": "order_number",
}

func baseQuery() sq.SelectBuilder {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar).Select("id").From("orders")
}

func TestApplyListParams(t *testing.T) {
	filter := types.Filter{
		Filter: map[string]interface{}{
			"status":  "Open,Closed",
			"mall":    "ShopA",
			"unknown": "x",
		},
		Sort:           map[string]string{"orderNumber": "desc", "password": "asc"},
		Limit:          10,
		Offset:         20,
		WithPagination: true,
	}

	query, args, err := ApplyListParams(baseQuery(), filter, testColumns).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id FROM orders WHERE mall = $1 AND status IN ($2,$3) ORDER BY order_number DESC LIMIT 10 OFFSET 20",
		query,
	)
	assert.Equal(t, []interface{}{"ShopA", "Open", "Closed"}, args)
}

func TestApplyListParams_WithoutPagination(t *testing.T) {
	filter := types.Filter{Limit: 10, Offset: 20}

	query, args, err := ApplyListParams(baseQuery(), filter, testColumns).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM orders", query)
	assert.Empty(t, args)
}

func TestApplySearch(t *testing.T) {
	query, args, err := ApplySearch(baseQuery(), "abc", "mall", "buyer_name").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM orders WHERE (mall ILIKE $1 OR buyer_name ILIKE $2)", query)
	assert.Equal(t, []interface{}{"%abc%", "%abc%"}, args)

	query, _, err = ApplySearch(baseQuery(), "", "mall").ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM orders", query)
}
