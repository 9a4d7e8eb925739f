// Package archive records published joint states to a local SQLite
// database for offline analysis.
//
// The archive is a downstream sink: it stores publisher *output*, never
// publisher state, so a restarted process always begins with a fresh rate
// accumulator regardless of what the archive holds.
package archive

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/robolens/simpub/internal/jointstate"
)

// Archive is a Publisher implementation backed by SQLite. One row is
// written per joint per published message.
type Archive struct {
	db *sql.DB
}

// Open opens (creating if needed) the archive database at path.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS joint_states (
			run_id            TEXT,
			tick              BIGINT,
			joint             TEXT,
			position          DOUBLE,
			velocity          DOUBLE,
			recorded_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_joint_states_run_tick
			ON joint_states (run_id, tick);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create archive schema: %w", err)
	}

	return &Archive{db: db}, nil
}

// Publish records every joint sample of the message in one transaction.
func (a *Archive) Publish(msg *jointstate.Message) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO joint_states (run_id, tick, joint, position, velocity) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare archive insert: %w", err)
	}
	defer stmt.Close()

	for _, j := range msg.Joints {
		if _, err := stmt.Exec(msg.RunID, msg.Tick, j.Name, j.Position, j.Velocity); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to archive joint %q: %w", j.Name, err)
		}
	}

	return tx.Commit()
}

// MessageCount returns the number of distinct published messages recorded
// for a run.
func (a *Archive) MessageCount(runID string) (int, error) {
	var count int
	err := a.db.QueryRow(`SELECT COUNT(DISTINCT tick) FROM joint_states WHERE run_id = ?`, runID).Scan(&count)
	return count, err
}

// JointHistory returns the recorded (tick, position, velocity) sequence for
// one joint of a run, in tick order.
func (a *Archive) JointHistory(runID, joint string) ([]jointstate.Snapshot, error) {
	rows, err := a.db.Query(
		`SELECT tick, position, velocity FROM joint_states WHERE run_id = ? AND joint = ? ORDER BY tick`,
		runID, joint)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []jointstate.Snapshot
	for rows.Next() {
		var tick uint64
		var pos, vel float64
		if err := rows.Scan(&tick, &pos, &vel); err != nil {
			return nil, err
		}
		out = append(out, jointstate.Snapshot{
			Tick:    tick,
			Samples: []jointstate.JointSample{{Name: joint, Position: pos, Velocity: vel}},
		})
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (a *Archive) Close() error { return a.db.Close() }
