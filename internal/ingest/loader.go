package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MosaabBleik/catalog-service/internal/database"
)

const (
	DefaultBatchSize     = 500
	DefaultProgressEvery = 1000

	// maxReportedErrors bounds Summary.Errors; every rejection is still logged.
	maxReportedErrors = 20
)

// Sink persists a pointer to a slice of models and reports how many rows
// were actually inserted. Rows that already exist are ignored.
type Sink interface {
	InsertBatch(ctx context.Context, rows any) (int64, error)
}

type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) InsertBatch(ctx context.Context, rows any) (int64, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows)
	return result.RowsAffected, result.Error
}

// Summary is the outcome of loading one table.
type Summary struct {
	Table      string
	Read       int
	Loaded     int
	Duplicates int
	Skipped    int
	Errors     []*RowError
}

type Loader struct {
	sink          Sink
	logger        *zap.Logger
	batchSize     int
	progressEvery int
}

type Option func(*Loader)

func WithBatchSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

func WithProgressEvery(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.progressEvery = n
		}
	}
}

func NewLoader(sink Sink, logger *zap.Logger, opts ...Option) *Loader {
	l := &Loader{
		sink:          sink,
		logger:        logger,
		batchSize:     DefaultBatchSize,
		progressEvery: DefaultProgressEvery,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadDir loads <table>.csv for every catalog table in dependency order.
func (l *Loader) LoadDir(ctx context.Context, dir string) ([]Summary, error) {
	summaries := make([]Summary, 0, len(database.Tables))
	for _, table := range database.Tables {
		summary, err := l.loadFile(ctx, table, filepath.Join(dir, table+".csv"))
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (l *Loader) loadFile(ctx context.Context, table, path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{Table: table}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	l.logger.Info("Loading table", zap.String("table", table), zap.String("file", path))
	return l.Load(ctx, table, f)
}

// Load reads CSV rows for table from r and inserts them.
func (l *Loader) Load(ctx context.Context, table string, r io.Reader) (Summary, error) {
	switch table {
	case distributionCenters.table:
		return load(ctx, l, distributionCenters, r)
	case users.table:
		return load(ctx, l, users, r)
	case products.table:
		return load(ctx, l, products, r)
	case orders.table:
		return load(ctx, l, orders, r)
	case inventoryItems.table:
		return load(ctx, l, inventoryItems, r)
	case orderItems.table:
		return load(ctx, l, orderItems, r)
	default:
		return Summary{Table: table}, fmt.Errorf("unknown table %q", table)
	}
}

type rowMeta struct {
	line int
	key  string
}

func load[T any](ctx context.Context, l *Loader, schema tableSchema[T], r io.Reader) (Summary, error) {
	summary := Summary{Table: schema.table}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return summary, fmt.Errorf("%s: empty file", schema.table)
		}
		return summary, fmt.Errorf("%s: read header: %w", schema.table, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range schema.required {
		if _, ok := index[col]; !ok {
			return summary, fmt.Errorf("%s: %w %q", schema.table, ErrMissingColumn, col)
		}
	}

	batch := make([]T, 0, l.batchSize)
	meta := make([]rowMeta, 0, l.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := l.flush(ctx, &summary, &batch, meta, func(i int) any {
			return &[]T{batch[i]}
		})
		batch = batch[:0]
		meta = meta[:0]
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return summary, fmt.Errorf("%s: read: %w", schema.table, err)
			}
			summary.Read++
			l.reject(&summary, &RowError{Table: schema.table, Line: parseErr.StartLine, Err: err})
			continue
		}

		summary.Read++
		line, _ := cr.FieldPos(0)
		rw := row{index: index, values: record}
		key := rw.raw(schema.keyCol)

		item, err := schema.parse(rw)
		if err != nil {
			l.reject(&summary, &RowError{Table: schema.table, Line: line, Key: key, Err: err})
		} else {
			batch = append(batch, item)
			meta = append(meta, rowMeta{line: line, key: key})
		}

		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return summary, err
			}
		}
		if summary.Read%l.progressEvery == 0 {
			l.logger.Info("Loading progress",
				zap.String("table", schema.table),
				zap.Int("rows", summary.Read),
				zap.Int("loaded", summary.Loaded),
			)
		}
	}
	if err := flush(); err != nil {
		return summary, err
	}

	l.logger.Info("Table loaded",
		zap.String("table", schema.table),
		zap.Int("rows", summary.Read),
		zap.Int("loaded", summary.Loaded),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

// flush inserts a batch. When the store rejects it, the rows are retried
// one at a time so only the offending rows are skipped.
func (l *Loader) flush(ctx context.Context, summary *Summary, batch any, meta []rowMeta, single func(i int) any) error {
	affected, err := l.sink.InsertBatch(ctx, batch)
	if err == nil {
		summary.Loaded += int(affected)
		summary.Duplicates += len(meta) - int(affected)
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if !isRowRejection(err) {
		return fmt.Errorf("insert %s: %w", summary.Table, err)
	}

	l.logger.Warn("Batch rejected, retrying row by row",
		zap.String("table", summary.Table),
		zap.Int("rows", len(meta)),
		zap.Error(err),
	)
	for i, m := range meta {
		affected, err := l.sink.InsertBatch(ctx, single(i))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if !isRowRejection(err) {
				return fmt.Errorf("insert %s: %w", summary.Table, err)
			}
			l.reject(summary, &RowError{
				Table: summary.Table,
				Line:  m.line,
				Key:   m.key,
				Err:   fmt.Errorf("%s: %w", rejectReason(err), err),
			})
			continue
		}
		summary.Loaded += int(affected)
		summary.Duplicates += 1 - int(affected)
	}
	return nil
}

func (l *Loader) reject(summary *Summary, rowErr *RowError) {
	summary.Skipped++
	if len(summary.Errors) < maxReportedErrors {
		summary.Errors = append(summary.Errors, rowErr)
	}
	l.logger.Warn("Skipping row",
		zap.String("table", rowErr.Table),
		zap.Int("line", rowErr.Line),
		zap.String("key", rowErr.Key),
		zap.Error(rowErr.Err),
	)
}
