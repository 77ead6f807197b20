package dashboard

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	admin "github.com/samriddha-basu-cloud/kitzcorner-admin"
	"github.com/samriddha-basu-cloud/kitzcorner-admin/docstore"
)

type fixtures struct {
	db        *bun.DB
	products  *docstore.Collection[admin.Product]
	orders    *docstore.Collection[admin.Order]
	payments  *docstore.Collection[admin.Payment]
	customers *docstore.Collection[admin.Customer]
}

func setupFixtures(t *testing.T) *fixtures {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, admin.EnsureSchema(context.Background(), db))

	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})

	return &fixtures{
		db:        db,
		products:  docstore.NewCollection[admin.Product](db),
		orders:    docstore.NewCollection[admin.Order](db),
		payments:  docstore.NewCollection[admin.Payment](db),
		customers: docstore.NewCollection[admin.Customer](db),
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, matches("", "anything"))
	assert.True(t, matches("ab", "KabC"))
	assert.True(t, matches("AB", "kabc"))
	assert.False(t, matches("zz", "kabc"))
	assert.True(t, matches(" ab ", "kabc"), "needle is trimmed")
}
