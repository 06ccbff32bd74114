package repository

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// statement is one SQL statement as the fake database saw it.
type statement struct {
	kind  string // exec, query or batch
	sql   string
	args  pgx.NamedArgs
	inTx  bool
	batch int // sequence number of the batch, 0 outside batches
}

// fakeDB records statements and answers queries from canned rows.
type fakeDB struct {
	mu         sync.Mutex
	statements []statement
	batches    int

	// failOn fails the first statement whose SQL contains it.
	failOn  string
	failErr error

	// respond returns rows for a query.
	respond func(sql string) (pgx.Rows, error)

	commits   int
	rollbacks int
}

func (f *fakeDB) record(kind, sql string, args []any, inTx bool, batch int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := statement{kind: kind, sql: sql, inTx: inTx, batch: batch}
	if len(args) == 1 {
		if named, ok := args[0].(pgx.NamedArgs); ok {
			st.args = named
		}
	}
	f.statements = append(f.statements, st)

	if f.failOn != "" && strings.Contains(sql, f.failOn) {
		f.failOn = ""
		return f.failErr
	}
	return nil
}

func (f *fakeDB) exec(ctx context.Context, inTx bool, sql string, args ...any) (pgconn.CommandTag, error) {
	if err := f.record("exec", sql, args, inTx, 0); err != nil {
		return pgconn.CommandTag{}, err
	}
	return pgconn.NewCommandTag("OK 1"), nil
}

func (f *fakeDB) query(ctx context.Context, inTx bool, sql string, args ...any) (pgx.Rows, error) {
	if err := f.record("query", sql, args, inTx, 0); err != nil {
		return nil, err
	}
	if f.respond == nil {
		return &fakeRows{}, nil
	}
	return f.respond(sql)
}

func (f *fakeDB) sendBatch(inTx bool, b *pgx.Batch) pgx.BatchResults {
	f.mu.Lock()
	f.batches++
	n := f.batches
	f.mu.Unlock()

	return &fakeBatchResults{db: f, queued: b.QueuedQueries, inTx: inTx, batch: n}
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return f.exec(ctx, false, sql, args...)
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return f.query(ctx, false, sql, args...)
}

func (f *fakeDB) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return f.sendBatch(false, b)
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return &fakeTx{db: f}, nil
}

// statementsMatching returns the recorded statements whose SQL contains substr.
func (f *fakeDB) statementsMatching(substr string) []statement {
	var out []statement
	for _, st := range f.statements {
		if strings.Contains(st.sql, substr) {
			out = append(out, st)
		}
	}
	return out
}

// indexOf returns the position of the first statement with the given prefix and id, or -1.
func (f *fakeDB) indexOf(prefix, id string) int {
	for i, st := range f.statements {
		if strings.HasPrefix(st.sql, prefix) && st.args["id"] == id {
			return i
		}
	}
	return -1
}

// fakeTx routes statements to the fake database, marked as transactional.
type fakeTx struct {
	pgx.Tx
	db     *fakeDB
	closed bool
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.db.exec(ctx, true, sql, args...)
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.db.query(ctx, true, sql, args...)
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return t.db.sendBatch(true, b)
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.db.commits++
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	t.db.rollbacks++
	return nil
}

type fakeBatchResults struct {
	db     *fakeDB
	queued []*pgx.QueuedQuery
	inTx   bool
	batch  int
	next   int
	err    error
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	if b.err != nil {
		return pgconn.CommandTag{}, b.err
	}
	q := b.queued[b.next]
	b.next++
	if err := b.db.record("batch", q.SQL, q.Arguments, b.inTx, b.batch); err != nil {
		b.err = err
		return pgconn.CommandTag{}, err
	}
	return pgconn.NewCommandTag("OK 1"), nil
}

func (b *fakeBatchResults) Query() (pgx.Rows, error) {
	panic("not used")
}

func (b *fakeBatchResults) QueryRow() pgx.Row {
	panic("not used")
}

func (b *fakeBatchResults) Close() error {
	return b.err
}

// fakeRows serves values column by column. A nil value scans as the zero value.
type fakeRows struct {
	columns []string
	values  [][]any
	pos     int
	err     error
}

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }
func (r *fakeRows) RawValues() [][]byte           { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.columns))
	for i, name := range r.columns {
		out[i] = pgconn.FieldDescription{Name: name}
	}
	return out
}

func (r *fakeRows) Next() bool {
	if r.err != nil || r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.values[r.pos-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.values[r.pos-1]
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		value := reflect.ValueOf(row[i])
		if target.Kind() == reflect.Pointer && value.Type().AssignableTo(target.Type().Elem()) {
			ptr := reflect.New(target.Type().Elem())
			ptr.Elem().Set(value)
			target.Set(ptr)
			continue
		}
		target.Set(value)
	}
	return nil
}

// stringRows builds single-column rows.
func stringRows(column string, values ...string) *fakeRows {
	rows := &fakeRows{columns: []string{column}}
	for _, v := range values {
		rows.values = append(rows.values, []any{v})
	}
	return rows
}

// structRows builds rows whose columns are the db tags of T.
func structRows[T any](items ...T) *fakeRows {
	t := reflect.TypeOf((*T)(nil)).Elem()
	rows := &fakeRows{}
	for i := 0; i < t.NumField(); i++ {
		rows.columns = append(rows.columns, t.Field(i).Tag.Get("db"))
	}
	for _, item := range items {
		v := reflect.ValueOf(item)
		values := make([]any, t.NumField())
		for i := range values {
			values[i] = v.Field(i).Interface()
		}
		rows.values = append(rows.values, values)
	}
	return rows
}
