package datarecording

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/tebeka/atexit"
)

// ClickHouseRecorder implements DataRecorder on a ClickHouse server. It is
// meant for large batch-style runs where a local SQLite file would become
// the bottleneck.
type ClickHouseRecorder struct {
	conn clickhouse.Conn

	mu         sync.Mutex
	batchSize  int
	tables     map[string]*table
	entryCount int

	execRec *execRecorder
}

// NewClickHouseRecorder connects to a ClickHouse server and returns a
// DataRecorder that streams batched inserts to it. A batchSize of 0 selects
// the default.
func NewClickHouseRecorder(
	host string,
	port int,
	database string,
	username string,
	password string,
	batchSize int,
) DataRecorder {
	if batchSize == 0 {
		batchSize = 100000
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", host, port)},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      time.Second * 30,
		MaxOpenConns:     5,
		MaxIdleConns:     5,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
		BlockBufferSize:  10,
	})
	if err != nil {
		panic(fmt.Errorf("failed to connect to ClickHouse: %w", err))
	}

	if err := conn.Ping(context.Background()); err != nil {
		panic(fmt.Errorf("failed to ping ClickHouse: %w", err))
	}

	r := &ClickHouseRecorder{
		conn:      conn,
		batchSize: batchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { r.Flush() })

	r.execRec = newExecRecorder(r)
	r.execRec.Start()

	return r
}

// CreateTable creates a MergeTree table whose columns mirror the fields of
// the sample entry. Fields tagged `codelock_data:"index"` form the sorting
// key; without such tags the first field sorts the table.
func (r *ClickHouseRecorder) CreateTable(tableName string, sampleEntry any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	createSQL := clickHouseCreateTableSQL(tableName, sampleEntry)

	if err := r.conn.Exec(context.Background(), createSQL); err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	r.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
		entries:    []any{},
	}
}

func clickHouseCreateTableSQL(tableName string, sampleEntry any) string {
	t := reflect.TypeOf(sampleEntry)

	cols := make([]string, 0, t.NumField())
	var orderBy []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		cols = append(cols,
			field.Name+" "+clickHouseColumnType(field.Type.Kind()))

		if tag, ok := field.Tag.Lookup("codelock_data"); ok &&
			(tag == "index" || tag == "unique") {
			orderBy = append(orderBy, field.Name)
		}
	}

	if len(orderBy) == 0 {
		orderBy = []string{t.Field(0).Name}
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n\t%s\n) ENGINE = MergeTree()\nORDER BY (%s)",
		tableName,
		strings.Join(cols, ",\n\t"),
		strings.Join(orderBy, ", "),
	)
}

func clickHouseColumnType(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool:
		return "Bool"
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64:
		return "Int64"
	case reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64:
		return "UInt64"
	case reflect.Float32, reflect.Float64:
		return "Float64"
	case reflect.String:
		return "String"
	default:
		panic(fmt.Sprintf("unsupported column kind %s", kind))
	}
}

// InsertData buffers one entry. The buffer is flushed when it grows past the
// batch size.
func (r *ClickHouseRecorder) InsertData(tableName string, entry any) {
	r.mu.Lock()

	t, exists := r.tables[tableName]
	if !exists {
		r.mu.Unlock()
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	t.entries = append(t.entries, entry)
	r.entryCount++

	if r.entryCount >= r.batchSize {
		r.mu.Unlock()
		r.Flush()

		return
	}

	r.mu.Unlock()
}

// ListTables returns the names of all created tables.
func (r *ClickHouseRecorder) ListTables() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	tables := make([]string, 0, len(r.tables))
	for name := range r.tables {
		tables = append(tables, name)
	}

	return tables
}

// Flush sends all buffered entries as one batch per table.
func (r *ClickHouseRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entryCount == 0 {
		return
	}

	ctx := context.Background()

	for tableName, t := range r.tables {
		if len(t.entries) == 0 {
			continue
		}

		r.flushTable(ctx, tableName, t)
	}

	r.entryCount = 0
}

func (r *ClickHouseRecorder) flushTable(
	ctx context.Context,
	tableName string,
	t *table,
) {
	batch, err := r.conn.PrepareBatch(ctx, "INSERT INTO "+tableName)
	if err != nil {
		panic(fmt.Errorf("failed to prepare batch for %s: %w", tableName, err))
	}

	for _, entry := range t.entries {
		if err := batch.Append(clickHouseRowValues(entry)...); err != nil {
			panic(fmt.Errorf("failed to append to batch: %w", err))
		}
	}

	if err := batch.Send(); err != nil {
		panic(fmt.Errorf("failed to send batch: %w", err))
	}

	t.entries = t.entries[:0]
}

// clickHouseRowValues widens each field to the canonical type of its column.
func clickHouseRowValues(entry any) []any {
	value := reflect.ValueOf(entry)

	row := make([]any, 0, value.NumField())
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)

		switch field.Kind() {
		case reflect.Bool:
			row = append(row, field.Bool())
		case reflect.Int, reflect.Int8, reflect.Int16,
			reflect.Int32, reflect.Int64:
			row = append(row, field.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16,
			reflect.Uint32, reflect.Uint64:
			row = append(row, field.Uint())
		case reflect.Float32, reflect.Float64:
			row = append(row, field.Float())
		case reflect.String:
			row = append(row, field.String())
		default:
			panic(fmt.Sprintf("unsupported field kind %s", field.Kind()))
		}
	}

	return row
}

// Close flushes the remaining entries, writes the run log, and closes the
// connection.
func (r *ClickHouseRecorder) Close() error {
	if r.execRec != nil {
		r.execRec.End()
	}

	r.Flush()

	if err := r.conn.Close(); err != nil {
		return fmt.Errorf("failed to close ClickHouse connection: %w", err)
	}

	return nil
}
