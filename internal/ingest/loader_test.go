package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MosaabBleik/catalog-service/internal/database"
	"github.com/MosaabBleik/catalog-service/internal/models"
)

// fakeSink keeps inserted rows in memory. Ids in reject fail with a
// foreign-key violation; repeated ids are ignored like ON CONFLICT DO NOTHING.
type fakeSink struct {
	reject map[int64]bool
	err    error
	seen   map[string]bool
	rows   []any
	calls  []int
	tables []string
}

func newFakeSink() *fakeSink {
	return &fakeSink{reject: map[int64]bool{}, seen: map[string]bool{}}
}

func rowID(v reflect.Value) int64 {
	if f := v.FieldByName("ID"); f.IsValid() {
		return f.Int()
	}
	return v.FieldByName("OrderID").Int()
}

func (s *fakeSink) InsertBatch(_ context.Context, rows any) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	slice := reflect.ValueOf(rows).Elem()
	s.calls = append(s.calls, slice.Len())
	for i := 0; i < slice.Len(); i++ {
		if s.reject[rowID(slice.Index(i))] {
			return 0, &pgconn.PgError{Code: codeForeignKeyViolation, Message: "violates foreign key constraint"}
		}
	}
	var affected int64
	for i := 0; i < slice.Len(); i++ {
		item := slice.Index(i)
		table := item.Interface().(interface{ TableName() string }).TableName()
		if len(s.tables) == 0 || s.tables[len(s.tables)-1] != table {
			s.tables = append(s.tables, table)
		}
		key := fmt.Sprintf("%s/%d", table, rowID(item))
		if s.seen[key] {
			continue
		}
		s.seen[key] = true
		s.rows = append(s.rows, item.Interface())
		affected++
	}
	return affected, nil
}

func newTestLoader(sink Sink, opts ...Option) *Loader {
	return NewLoader(sink, zap.NewNop(), opts...)
}

const productsCSV = `id,cost,category,name,brand,retail_price,department,sku,distribution_center_id
1,10.50,Jeans,Slim Fit,Levi's,49.99,Men,SKU1,1
2,,Tops,Plain Tee,Gap,,Women,SKU2,abc
3,4.25,Socks,Ankle Socks,,9.00,Men,,
`

func TestLoad_Products(t *testing.T) {
	sink := newFakeSink()
	summary, err := newTestLoader(sink).Load(context.Background(), "products", strings.NewReader(productsCSV))
	require.NoError(t, err)

	assert.Equal(t, Summary{Table: "products", Read: 3, Loaded: 3}, summary)
	require.Len(t, sink.rows, 3)

	first := sink.rows[0].(models.Product)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "Levi's", *first.Brand)
	assert.Equal(t, "49.99", first.RetailPrice.Decimal.StringFixed(2))
	assert.Equal(t, int64(1), *first.DistributionCenterID)

	second := sink.rows[1].(models.Product)
	assert.False(t, second.Cost.Valid)
	assert.False(t, second.RetailPrice.Valid)
	assert.Nil(t, second.DistributionCenterID)

	third := sink.rows[2].(models.Product)
	assert.Nil(t, third.Brand)
	assert.Nil(t, third.SKU)
}

func TestLoad_MalformedRowsAreSkipped(t *testing.T) {
	input := `id,cost,category,name,brand,retail_price,department,sku,distribution_center_id
x,1,Jeans,A,B,2,Men,S,1
2,12.x,Jeans,A,B,2,Men,S,1
3,1,Jeans,A,B,-2,Men,S,1
4,1,Jeans,A,B,2,Men,S,1
`
	sink := newFakeSink()
	summary, err := newTestLoader(sink).Load(context.Background(), "products", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Read)
	assert.Equal(t, 1, summary.Loaded)
	assert.Equal(t, 3, summary.Skipped)
	require.Len(t, summary.Errors, 3)

	first := summary.Errors[0]
	assert.Equal(t, "products", first.Table)
	assert.Equal(t, 2, first.Line)
	assert.Equal(t, "x", first.Key)

	var fieldErr *FieldError
	require.ErrorAs(t, summary.Errors[1], &fieldErr)
	assert.Equal(t, "cost", fieldErr.Column)
	assert.Equal(t, 3, summary.Errors[1].Line)

	require.ErrorAs(t, summary.Errors[2], &fieldErr)
	assert.Equal(t, "retail_price", fieldErr.Column)
}

func TestLoad_RejectedBatchFallsBackToRows(t *testing.T) {
	input := `order_id,user_id,status,gender,created_at,returned_at,shipped_at,delivered_at,num_of_item
1,10,Complete,F,2023-01-01 10:00:00+00:00,,,,1
2,11,Shipped,M,,,,,2
3,999,Shipped,M,,,,,x
4,12,Cancelled,F,,,,,1
5,13,Processing,F,,,,,3
`
	sink := newFakeSink()
	sink.reject[3] = true

	summary, err := newTestLoader(sink, WithBatchSize(2)).Load(context.Background(), "orders", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Read)
	assert.Equal(t, 4, summary.Loaded)
	assert.Equal(t, 1, summary.Skipped)
	// batches of 2: [1,2] ok, [3,4] rejected then retried singly, [5] ok
	assert.Equal(t, []int{2, 2, 1, 1, 1}, sink.calls)

	require.Len(t, summary.Errors, 1)
	rowErr := summary.Errors[0]
	assert.Equal(t, "3", rowErr.Key)
	assert.Equal(t, 4, rowErr.Line)
	assert.Contains(t, rowErr.Error(), "foreign key violation")

	var pgErr *pgconn.PgError
	require.ErrorAs(t, rowErr, &pgErr)
	assert.Equal(t, codeForeignKeyViolation, pgErr.Code)

	first := sink.rows[0].(models.Order)
	require.NotNil(t, first.CreatedAt)
	assert.Equal(t, 2023, first.CreatedAt.Year())
	assert.Nil(t, sink.rows[1].(models.Order).CreatedAt)
}

func TestLoad_DuplicatesAreCounted(t *testing.T) {
	input := "id,name,latitude,longitude\n1,Memphis TN,35.1174,-89.9711\n1,Memphis TN,35.1174,-89.9711\n2,Chicago IL,,\n"
	sink := newFakeSink()

	summary, err := newTestLoader(sink).Load(context.Background(), "distribution_centers", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Loaded)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Zero(t, summary.Skipped)

	chicago := sink.rows[1].(models.DistributionCenter)
	assert.Nil(t, chicago.Latitude)
}

func TestLoad_ConnectionErrorAborts(t *testing.T) {
	sink := newFakeSink()
	sink.err = errors.New("connection refused")

	_, err := newTestLoader(sink).Load(context.Background(), "products", strings.NewReader(productsCSV))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestLoader(newFakeSink()).Load(ctx, "products", strings.NewReader(productsCSV))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_BadInput(t *testing.T) {
	loader := newTestLoader(newFakeSink())
	ctx := context.Background()

	_, err := loader.Load(ctx, "products", strings.NewReader("name,brand\nA,B\n"))
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = loader.Load(ctx, "products", strings.NewReader(""))
	assert.Error(t, err)

	_, err = loader.Load(ctx, "suppliers", strings.NewReader(productsCSV))
	assert.Error(t, err)
}

func TestLoad_HeaderWithByteOrderMark(t *testing.T) {
	sink := newFakeSink()
	summary, err := newTestLoader(sink).Load(context.Background(), "products", strings.NewReader("\ufeff"+productsCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Loaded)
}

func TestLoadDir_DependencyOrder(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"distribution_centers": "id,name,latitude,longitude\n1,Memphis TN,35.1,-89.9\n",
		"users":                "id,first_name,last_name,email,age,gender,state,street_address,postal_code,city,country,latitude,longitude,traffic_source,created_at\n1,Ann,Lee,ann@example.com,31,F,TN,1 Main,38101,Memphis,United States,,,Search,2022-03-01 08:00:00+00:00\n",
		"products":             productsCSV,
		"orders":               "order_id,user_id,status,gender,created_at,returned_at,shipped_at,delivered_at,num_of_item\n1,1,Complete,F,,,,,1\n",
		"inventory_items":      "id,product_id,created_at,sold_at,cost,product_category,product_name,product_brand,product_retail_price,product_department,product_sku,product_distribution_center_id\n1,1,,,10.50,Jeans,Slim Fit,Levi's,49.99,Men,SKU1,1\n",
		"order_items":          "id,order_id,user_id,product_id,inventory_item_id,status,created_at,shipped_at,delivered_at,returned_at,sale_price\n1,1,1,1,1,Complete,,,,,49.99\n",
	}
	for table, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, table+".csv"), []byte(body), 0o600))
	}

	sink := newFakeSink()
	summaries, err := newTestLoader(sink).LoadDir(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, summaries, len(database.Tables))
	for i, table := range database.Tables {
		assert.Equal(t, table, summaries[i].Table)
		assert.Zero(t, summaries[i].Skipped, table)
	}
	assert.Equal(t, database.Tables, sink.tables)
}

func TestLoadDir_MissingFile(t *testing.T) {
	_, err := newTestLoader(newFakeSink()).LoadDir(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
