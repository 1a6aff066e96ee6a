package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (external analysis
	// tools read while the daemon writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS simulation_runs (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			request_id        TEXT,
			kind              TEXT,
			symbol            TEXT,
			cadence           TEXT,
			amount            REAL,
			start_date        TEXT,
			points            INTEGER,
			purchases         INTEGER,
			clean_days        INTEGER,
			cash_spent        REAL,
			current_value     REAL,
			gain_loss         REAL,
			gain_loss_percent REAL,
			elapsed_ms        INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON simulation_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS statement_imports (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp         INTEGER NOT NULL,
			transaction_count INTEGER,
			total_amount      TEXT,
			top_category      TEXT,
			source_chars      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_imports_ts ON statement_imports(timestamp)`,

		`CREATE TABLE IF NOT EXISTS imported_transactions (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			import_id   INTEGER NOT NULL,
			tx_date     TEXT,
			description TEXT,
			amount      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_txs_import ON imported_transactions(import_id)`,

		`CREATE TABLE IF NOT EXISTS state_changes (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT,
			cadence    TEXT,
			amount     REAL,
			start_date TEXT,
			clean_days INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_state_ts ON state_changes(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSimulation(evt *SimulationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum := evt.Summary
	_, err := r.db.Exec(`INSERT INTO simulation_runs
		(timestamp, request_id, kind, symbol, cadence, amount, start_date,
		 points, purchases, clean_days,
		 cash_spent, current_value, gain_loss, gain_loss_percent, elapsed_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.RequestID, evt.Kind, evt.Symbol, evt.Cadence,
		evt.Amount, evt.StartDate,
		evt.Points, sum.PurchasesCount, sum.CleanDaysCount,
		sum.TotalCashSpent, sum.CurrentValue, sum.GainLoss, sum.GainLossPercent,
		evt.Elapsed.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordImport(evt *ImportEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO statement_imports
		(timestamp, transaction_count, total_amount, top_category, source_chars)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.TransactionCount, evt.TotalAmount.String(),
		evt.TopCategory, evt.SourceChars,
	)
	if err != nil {
		return err
	}
	importID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for _, t := range evt.Transactions {
		if _, err := tx.Exec(`INSERT INTO imported_transactions
			(import_id, tx_date, description, amount) VALUES (?,?,?,?)`,
			importID, t.Date, t.Description, t.Amount.String(),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordStateChange(evt *StateChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO state_changes
		(timestamp, symbol, cadence, amount, start_date, clean_days)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, evt.Cadence, evt.Amount,
		evt.StartDate, evt.CleanDaysCount,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
