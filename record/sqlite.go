package record

import (
	"database/sql"
	"os"

	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/engine"
	"github.com/Pickles91/ContiguousMemoryAllocation/memutils/region"
	"github.com/Pickles91/ContiguousMemoryAllocation/sim"
	"github.com/cockroachdb/errors"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
	"golang.org/x/exp/slog"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
)

const defaultBatchSize = 10000

type spanRow struct {
	strategy string
	tick     int
	span     region.Span
}

type pendingRow struct {
	strategy string
	tick     int
	position int
	request  engine.Request
}

// SQLiteTraceWriter writes the snapshots of a run to a SQLite database. Rows are buffered and
// written in batches, one transaction per batch. Trace databases are output only: nothing in the
// simulator reads them back.
type SQLiteTraceWriter struct {
	*sql.DB
	logger           *slog.Logger
	runStatement     *sql.Stmt
	requestStatement *sql.Stmt
	spanStatement    *sql.Stmt
	pendingStatement *sql.Stmt

	dbName         string
	spansToWrite   []spanRow
	pendingToWrite []pendingRow
	batchSize      int
}

// NewSQLiteTraceWriter creates a writer for the database at path. If path is empty, the database is
// named after the run id when Init is called. Buffered rows are flushed when the program exits
// through atexit.
func NewSQLiteTraceWriter(logger *slog.Logger, path string) *SQLiteTraceWriter {
	w := &SQLiteTraceWriter{
		logger:    logger,
		dbName:    path,
		batchSize: defaultBatchSize,
	}

	atexit.Register(func() {
		if err := w.Flush(); err != nil {
			w.logger.Error("could not flush trace at exit", slog.Any("error", err))
		}
	})

	return w
}

// SetBatchSize changes how many rows are buffered before a batch is written
func (w *SQLiteTraceWriter) SetBatchSize(size int) {
	w.batchSize = max(1, size)
}

// Path is the file the trace is written to
func (w *SQLiteTraceWriter) Path() string {
	return w.dbName
}

// Init creates the database file and its tables. It fails if the file already exists.
func (w *SQLiteTraceWriter) Init(runID xid.ID) error {
	if w.dbName == "" {
		w.dbName = "memsim_trace_" + runID.String() + ".sqlite3"
	}

	_, err := os.Stat(w.dbName)
	if err == nil {
		return errors.Newf("file %s already exists", w.dbName)
	}

	db, err := sql.Open("sqlite3", w.dbName)
	if err != nil {
		return errors.Wrapf(err, "could not open trace database %s", w.dbName)
	}
	w.DB = db

	err = w.createTables()
	if err != nil {
		return err
	}

	err = w.prepareStatements()
	if err != nil {
		return err
	}

	w.logger.Info("Trace is collected in database", slog.String("Path", w.dbName))
	return nil
}

func (w *SQLiteTraceWriter) createTables() error {
	statements := []string{
		`CREATE TABLE run
		(
			run_id      VARCHAR(20) NOT NULL,
			memory_size INTEGER     NOT NULL
		);`,
		`CREATE TABLE request
		(
			process  INTEGER NOT NULL,
			size     INTEGER NOT NULL,
			lifetime INTEGER NOT NULL
		);`,
		`CREATE TABLE snapshot_span
		(
			strategy VARCHAR(20) NOT NULL,
			tick     INTEGER     NOT NULL,
			address  INTEGER     NOT NULL,
			size     INTEGER     NOT NULL,
			kind     VARCHAR(20) NOT NULL,
			process  INTEGER     NULL,
			lifetime INTEGER     NULL
		);`,
		`CREATE INDEX snapshot_span_tick_index
			ON snapshot_span (strategy, tick);`,
		`CREATE TABLE snapshot_pending
		(
			strategy VARCHAR(20) NOT NULL,
			tick     INTEGER     NOT NULL,
			position INTEGER     NOT NULL,
			process  INTEGER     NOT NULL,
			size     INTEGER     NOT NULL,
			lifetime INTEGER     NOT NULL
		);`,
		`CREATE INDEX snapshot_pending_tick_index
			ON snapshot_pending (strategy, tick);`,
	}

	for _, statement := range statements {
		_, err := w.Exec(statement)
		if err != nil {
			return errors.Wrapf(err, "could not create trace tables in %s", w.dbName)
		}
	}
	return nil
}

func (w *SQLiteTraceWriter) prepareStatements() error {
	statements := []struct {
		target **sql.Stmt
		query  string
	}{
		{&w.runStatement, `INSERT INTO run (run_id, memory_size) VALUES (?, ?)`},
		{&w.requestStatement, `INSERT INTO request (process, size, lifetime) VALUES (?, ?, ?)`},
		{&w.spanStatement, `INSERT INTO snapshot_span (strategy, tick, address, size, kind, process, lifetime) VALUES (?, ?, ?, ?, ?, ?, ?)`},
		{&w.pendingStatement, `INSERT INTO snapshot_pending (strategy, tick, position, process, size, lifetime) VALUES (?, ?, ?, ?, ?, ?)`},
	}

	for _, statement := range statements {
		stmt, err := w.Prepare(statement.query)
		if err != nil {
			return errors.Wrapf(err, "could not prepare %q", statement.query)
		}
		*statement.target = stmt
	}
	return nil
}

// WriteRun records the run id, address space size and workload of a run
func (w *SQLiteTraceWriter) WriteRun(results *sim.Results) error {
	_, err := w.runStatement.Exec(results.RunID.String(), results.MemorySize)
	if err != nil {
		return errors.Wrap(err, "could not write run")
	}

	for _, request := range results.Requests {
		_, err = w.requestStatement.Exec(int(request.Process), request.Size, request.Lifetime)
		if err != nil {
			return errors.Wrapf(err, "could not write request %s", request)
		}
	}
	return nil
}

// WriteSnapshot buffers the layout and pending queue of a snapshot, writing a batch once enough
// rows are buffered
func (w *SQLiteTraceWriter) WriteSnapshot(snapshot engine.Snapshot) error {
	strategy := snapshot.Strategy.String()

	for _, span := range snapshot.Spans() {
		w.spansToWrite = append(w.spansToWrite, spanRow{strategy: strategy, tick: snapshot.Tick, span: span})
	}

	for position, request := range snapshot.Pending {
		w.pendingToWrite = append(w.pendingToWrite, pendingRow{
			strategy: strategy,
			tick:     snapshot.Tick,
			position: position,
			request:  request,
		})
	}

	if len(w.spansToWrite)+len(w.pendingToWrite) >= w.batchSize {
		return w.Flush()
	}
	return nil
}

// Flush writes every buffered row in a single transaction
func (w *SQLiteTraceWriter) Flush() error {
	if len(w.spansToWrite) == 0 && len(w.pendingToWrite) == 0 {
		return nil
	}

	if w.DB == nil {
		return errors.New("trace database has not been initialized")
	}

	tx, err := w.Begin()
	if err != nil {
		return errors.Wrap(err, "could not begin trace batch")
	}

	err = w.writeBatch(tx)
	if err != nil {
		return errors.CombineErrors(err, tx.Rollback())
	}

	err = tx.Commit()
	if err != nil {
		return errors.Wrap(err, "could not commit trace batch")
	}

	w.logger.Debug("SQLiteTraceWriter::Flush", slog.Int("Spans", len(w.spansToWrite)), slog.Int("Pending", len(w.pendingToWrite)))
	w.spansToWrite = nil
	w.pendingToWrite = nil
	return nil
}

func (w *SQLiteTraceWriter) writeBatch(tx *sql.Tx) error {
	spanStatement := tx.Stmt(w.spanStatement)
	for _, row := range w.spansToWrite {
		var process, lifetime sql.NullInt64
		kind := "Free"
		if row.span.Owner.IsOccupied() {
			kind = "Process"
			process = sql.NullInt64{Int64: int64(row.span.Owner.Process), Valid: true}
			lifetime = sql.NullInt64{Int64: int64(row.span.Owner.Lifetime), Valid: true}
		}

		_, err := spanStatement.Exec(row.strategy, row.tick, row.span.Start, row.span.Size, kind, process, lifetime)
		if err != nil {
			return errors.Wrapf(err, "could not write %s span at %d for tick %d", row.strategy, row.span.Start, row.tick)
		}
	}

	pendingStatement := tx.Stmt(w.pendingStatement)
	for _, row := range w.pendingToWrite {
		_, err := pendingStatement.Exec(row.strategy, row.tick, row.position, int(row.request.Process), row.request.Size, row.request.Lifetime)
		if err != nil {
			return errors.Wrapf(err, "could not write pending %s for %s tick %d", row.request, row.strategy, row.tick)
		}
	}

	return nil
}

// Close flushes any buffered rows and closes the database
func (w *SQLiteTraceWriter) Close() error {
	if w.DB == nil {
		return nil
	}

	err := w.Flush()
	return errors.CombineErrors(err, w.DB.Close())
}

// Trace writes a complete run to a new trace database at path and returns the path used
func Trace(logger *slog.Logger, path string, results *sim.Results) (string, error) {
	w := NewSQLiteTraceWriter(logger, path)
	err := w.Init(results.RunID)
	if err != nil {
		return "", err
	}

	err = w.writeResults(results)
	err = errors.CombineErrors(err, w.Close())
	if err != nil {
		return "", err
	}
	return w.Path(), nil
}

func (w *SQLiteTraceWriter) writeResults(results *sim.Results) error {
	err := w.WriteRun(results)
	if err != nil {
		return err
	}

	for _, history := range results.Histories {
		for _, snapshot := range history.Snapshots {
			err = w.WriteSnapshot(snapshot)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
