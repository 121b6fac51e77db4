package grading

import (
	"errors"
	"testing"

	"sqltester/internal/common"

	"github.com/stretchr/testify/assert"
)

func TestPrepare(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "SELECT 1", want: "SELECT 1"},
		{name: "surrounding space", in: "  SELECT 1  ", want: "SELECT 1"},
		{name: "trailing semicolon", in: "SELECT 1;", want: "SELECT 1"},
		{name: "semicolon then space", in: "SELECT 1 ; ", want: "SELECT 1"},
		{name: "newlines kept", in: "SELECT 1\nFROM t;", want: "SELECT 1\nFROM t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prepare(tt.in))
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		query string
		ok    bool
	}{
		{name: "plain select", query: "SELECT id, name FROM customers", ok: true},
		{name: "lowercase select", query: "select * from orders o join items i on i.order_id = o.id", ok: true},
		{name: "cte", query: "WITH top AS (SELECT * FROM orders) SELECT * FROM top", ok: true},
		{name: "column named updated_at", query: "SELECT updated_at, created_by FROM orders", ok: true},
		{name: "empty", query: "", ok: false},
		{name: "multiple statements", query: "SELECT 1; SELECT 2", ok: false},
		{name: "insert", query: "INSERT INTO orders VALUES (1)", ok: false},
		{name: "update", query: "UPDATE orders SET total = 0", ok: false},
		{name: "delete", query: "delete from orders", ok: false},
		{name: "drop", query: "DROP TABLE orders", ok: false},
		{name: "copy", query: "COPY orders TO '/tmp/x'", ok: false},
		{name: "smuggled delete in subquery", query: "SELECT * FROM (DELETE FROM orders RETURNING *) x", ok: false},
		{name: "explain is not select", query: "EXPLAIN SELECT 1", ok: false},
		// Literals are not parsed; keywords and semicolons inside them
		// are rejected like anywhere else.
		{name: "keyword inside literal", query: "SELECT * FROM notes WHERE title = 'drop by'", ok: false},
		{name: "semicolon inside literal", query: "SELECT * FROM notes WHERE sep = ';'", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(Prepare(tt.query))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrQueryRejected), "want ErrQueryRejected, got %v", err)
			}
		})
	}
}
