package grading

import (
	"context"
	"time"

	"sqltester/internal/common"

	"github.com/jmoiron/sqlx"
)

// Runner executes untrusted query text against the sandbox pool and
// returns the result rows rendered as text. Every query gets its own
// deadline and the result is capped by row count; a submitted query can
// slow down one request, not the process.
type Runner struct {
	db      *sqlx.DB
	timeout time.Duration
	maxRows int
}

func NewRunner(db *sqlx.DB, timeout time.Duration, maxRows int) *Runner {
	return &Runner{db: db, timeout: timeout, maxRows: maxRows}
}

func (r *Runner) Run(ctx context.Context, query string) ([][]string, error) {
	query = Prepare(query)
	if err := Check(query); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, common.Errorf("%w: %v", common.ErrQueryExecution, err)
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		if len(result) >= r.maxRows {
			return nil, common.Errorf("result exceeds %d rows: %w", r.maxRows, common.ErrQueryRejected)
		}
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, common.Errorf("%w: %v", common.ErrQueryExecution, err)
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = RenderCell(v)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Errorf("%w: %v", common.ErrQueryExecution, err)
	}
	return result, nil
}
