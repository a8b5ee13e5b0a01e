package connector

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/ferrysql/internal/testutil"
	"github.com/leapstack-labs/ferrysql/pkg/frame"
)

const defaultTestTimeout = 5 * time.Second

// newTestConnector wires a connector to a sqlmock pool using the generic
// dialect, so generated SQL is deterministic in expectations.
func newTestConnector(t *testing.T, fastBulk bool) (*Connector, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	e := NewEngine(db, nil)
	if fastBulk {
		e.OnBeforeExec(FastBulkInsertHook)
	}

	return &Connector{
		cfg:        Config{DBType: "postgresql", Address: "localhost", User: "u", Password: "p", DBName: "d"},
		connString: "postgresql://u:p@localhost/d",
		logger:     testutil.NewTestLogger(t),
		engine:     e,
	}, mock, db
}

// colFrame builds a single-column frame of ints 1..n.
func colFrame(t *testing.T, n int) *frame.Frame {
	t.Helper()
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{i + 1}
	}
	f, err := frame.New([]string{"v"}, rows)
	require.NoError(t, err)
	return f
}

func TestSetFrame_WholeForcesReplace(t *testing.T) {
	c, mock, _ := newTestConnector(t, true)

	f, err := frame.New([]string{"a", "b"}, [][]any{
		{1, "x"},
		{2, "y"},
	})
	require.NoError(t, err)

	// Caller asks for append, but the unsplit path always replaces.
	mock.ExpectExec(`DROP TABLE IF EXISTS "t"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "t" ("a" BIGINT, "b" TEXT)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "t" ("a", "b") VALUES (?, ?), (?, ?)`).
		WithArgs(1, "x", 2, "y").
		WillReturnResult(sqlmock.NewResult(0, 2))

	ok, err := c.SetFrame(context.Background(), "t", f, WriteOptions{IfExists: IfExistsAppend})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFrame_SplitFirstHonorsIfExists(t *testing.T) {
	c, mock, _ := newTestConnector(t, true)
	f := colFrame(t, 6)

	// 6 cells over a 2-cell threshold: 3 chunks of 2 rows each. The first
	// chunk uses the caller's append mode, the rest append regardless.
	create := `CREATE TABLE IF NOT EXISTS "t" ("v" BIGINT)`
	mock.ExpectExec(create).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "t" ("v") VALUES (?), (?)`).
		WithArgs(1, 2).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(create).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "t" ("v") VALUES (?), (?)`).
		WithArgs(3, 4).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(create).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "t" ("v") VALUES (?), (?)`).
		WithArgs(5, 6).WillReturnResult(sqlmock.NewResult(0, 2))

	ok, err := c.SetFrame(context.Background(), "t", f, WriteOptions{
		IfExists:  IfExistsAppend,
		ChunkSize: 2,
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFrame_SplitReplaceDropsOnce(t *testing.T) {
	c, mock, _ := newTestConnector(t, true)
	f := colFrame(t, 4)

	mock.ExpectExec(`DROP TABLE IF EXISTS "t"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "t" ("v" BIGINT)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "t" ("v") VALUES (?), (?)`).
		WithArgs(1, 2).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "t" ("v" BIGINT)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "t" ("v") VALUES (?), (?)`).
		WithArgs(3, 4).WillReturnResult(sqlmock.NewResult(0, 2))

	ok, err := c.SetFrame(context.Background(), "t", f, WriteOptions{
		IfExists:  IfExistsReplace,
		ChunkSize: 2,
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFrame_CellCountDrivesSplit(t *testing.T) {
	c, mock, _ := newTestConnector(t, true)

	// 4 rows x 3 cols = 12 cells. A 5-cell threshold gives 3 chunks with
	// rows 2/1/1; a naive row-count reading would give a different split.
	f, err := frame.New([]string{"a", "b", "c"}, [][]any{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
		{10, 11, 12},
	})
	require.NoError(t, err)

	create := `CREATE TABLE IF NOT EXISTS "t" ("a" BIGINT, "b" BIGINT, "c" BIGINT)`
	mock.ExpectExec(create).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "t" ("a", "b", "c") VALUES (?, ?, ?), (?, ?, ?)`).
		WithArgs(1, 2, 3, 4, 5, 6).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(create).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "t" ("a", "b", "c") VALUES (?, ?, ?)`).
		WithArgs(7, 8, 9).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(create).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "t" ("a", "b", "c") VALUES (?, ?, ?)`).
		WithArgs(10, 11, 12).WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := c.SetFrame(context.Background(), "t", f, WriteOptions{
		IfExists:  IfExistsAppend,
		ChunkSize: 5,
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFrame_FailModeRejectsExistingTable(t *testing.T) {
	c, mock, _ := newTestConnector(t, true)
	f := colFrame(t, 4)

	mock.ExpectQuery(`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = ? AND table_name = ?`).
		WithArgs("public", "t").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := c.SetFrame(context.Background(), "t", f, WriteOptions{
		IfExists:  IfExistsFail,
		ChunkSize: 2,
	})
	var exists *TableExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "t", exists.Table)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFrame_MidTransferFailureKeepsCommittedChunks(t *testing.T) {
	c, mock, _ := newTestConnector(t, true)
	f := colFrame(t, 4)

	mock.ExpectExec(`DROP TABLE IF EXISTS "t"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "t" ("v" BIGINT)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "t" ("v") VALUES (?), (?)`).
		WithArgs(1, 2).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "t" ("v" BIGINT)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "t" ("v") VALUES (?), (?)`).
		WithArgs(3, 4).WillReturnError(assert.AnError)

	ok, err := c.SetFrame(context.Background(), "t", f, WriteOptions{
		IfExists:  IfExistsReplace,
		ChunkSize: 2,
	})
	require.Error(t, err)
	assert.False(t, ok)
	// No rollback expectations: chunk 0 stays committed.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFrame_PreparedPathWithoutFastBulk(t *testing.T) {
	c, mock, _ := newTestConnector(t, false)
	f := colFrame(t, 2)

	insert := `INSERT INTO "t" ("v") VALUES (?)`
	mock.ExpectExec(`DROP TABLE IF EXISTS "t"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "t" ("v" BIGINT)`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(insert)
	mock.ExpectExec(insert).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(insert).WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := c.SetFrame(context.Background(), "t", f, WriteOptions{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetFrame_EmptyFrameCreatesTableOnly(t *testing.T) {
	c, mock, _ := newTestConnector(t, true)

	f, err := frame.New([]string{"v"}, nil)
	require.NoError(t, err)

	mock.ExpectExec(`DROP TABLE IF EXISTS "t"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE "t" ("v" TEXT)`).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := c.SetFrame(context.Background(), "t", f, WriteOptions{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFrame(t *testing.T) {
	c, mock, _ := newTestConnector(t, true)

	mock.ExpectQuery(`SELECT * FROM "t"`).WillReturnRows(
		sqlmock.NewRows([]string{"v"}).AddRow(1).AddRow(2).AddRow(3))

	f, err := c.GetFrame(context.Background(), "t", ReadOptions{ChunkSize: 2})
	require.NoError(t, err)
	require.NotNil(t, f)
	// Chunks of 2 and 1 rows, concatenated in arrival order.
	assert.Equal(t, [][]any{{int64(1)}, {int64(2)}, {int64(3)}}, f.Rows())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFrame_ChunkCountCapsResult(t *testing.T) {
	c, mock, _ := newTestConnector(t, true)

	mock.ExpectQuery(`SELECT * FROM "t"`).WillReturnRows(
		sqlmock.NewRows([]string{"v"}).AddRow(1).AddRow(2).AddRow(3).AddRow(4))

	f, err := c.GetFrame(context.Background(), "t", ReadOptions{ChunkSize: 2, ChunkCount: 1})
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, [][]any{{int64(1)}, {int64(2)}}, f.Rows())
}

func TestGetFrame_EmptyTableReturnsNil(t *testing.T) {
	c, mock, _ := newTestConnector(t, true)

	mock.ExpectQuery(`SELECT * FROM "t"`).WillReturnRows(sqlmock.NewRows([]string{"v"}))

	f, err := c.GetFrame(context.Background(), "t", ReadOptions{})
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTables(t *testing.T) {
	c, mock, _ := newTestConnector(t, true)

	mock.ExpectQuery(catalogQuery).WillReturnRows(
		sqlmock.NewRows([]string{"TABLE_NAME", "TABLE_TYPE"}).
			AddRow("users", "BASE TABLE").
			AddRow("orders", "BASE TABLE"))

	f, err := c.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, f.RowCount())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryFrame(t *testing.T) {
	c, mock, _ := newTestConnector(t, true)

	mock.ExpectQuery(`SELECT v FROM t WHERE v > 1`).WillReturnRows(
		sqlmock.NewRows([]string{"v"}).AddRow(2).AddRow(3))

	f, err := c.QueryFrame(context.Background(), "SELECT v FROM t WHERE v > 1")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(2)}, {int64(3)}}, f.Rows())
}

func TestExecute_ReleasesConnectionOnError(t *testing.T) {
	c, mock, db := newTestConnector(t, true)

	// With a single-connection pool, a leaked connection would make the
	// second call block on acquisition.
	db.SetMaxOpenConns(1)

	mock.ExpectExec(`DELETE FROM t`).WillReturnError(assert.AnError)
	mock.ExpectExec(`DELETE FROM t`).WillReturnResult(sqlmock.NewResult(0, 1))

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	_, err := c.Execute(ctx, "DELETE FROM t", false)
	require.Error(t, err)

	res, err := c.Execute(ctx, "DELETE FROM t", true)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLazyInit_UnknownDriver(t *testing.T) {
	c, err := New(Config{
		DBType:   "oracle",
		Address:  "h",
		User:     "u",
		Password: "p",
		DBName:   "d",
	}, testutil.NewTestLogger(t))
	require.NoError(t, err)

	_, err = c.SetFrame(context.Background(), "t", colFrame(t, 1), WriteOptions{})
	var unknown *UnknownDriverError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "oracle", unknown.Type)
}

func TestEnsureEngine_KeepsExistingEngine(t *testing.T) {
	c, _, _ := newTestConnector(t, true)
	before := c.Engine()

	require.NoError(t, c.ensureEngine(context.Background()))
	assert.Same(t, before, c.Engine())
}

func TestFastBulkInsertHook(t *testing.T) {
	batched := Stmt{SQL: "INSERT", Batch: true}
	FastBulkInsertHook(&batched)
	assert.True(t, batched.FastBulk)

	single := Stmt{SQL: "INSERT", Batch: false}
	FastBulkInsertHook(&single)
	assert.False(t, single.FastBulk)
}
