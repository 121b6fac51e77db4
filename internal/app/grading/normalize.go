// Package grading holds the comparison core: rendering a query result
// into canonical text and running untrusted query text under guard.
package grading

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// nullDisplay is the fixed rendering for NULL cells. It has to be one
// well-defined string because it feeds exact-match scoring.
const nullDisplay = ""

// Normalize renders a result set as comparable text: every cell followed
// by a tab, one line per row, no trailing newline. Every row keeps its
// trailing tab, so line-sorting treats all rows alike. An empty result
// set normalizes to the empty string.
func Normalize(rows [][]string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for _, cell := range row {
			b.WriteString(cell)
			b.WriteByte('\t')
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

// OrderInsensitive rewrites normalized text with its lines sorted in
// codepoint order, so two results with the same rows in different order
// compare equal.
func OrderInsensitive(text string) string {
	lines := strings.Split(text, "\n")
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}

// RenderCell converts a scanned column value to its display text. The
// conversion is pinned here rather than left to driver defaults, since
// every rendering choice is score-affecting.
func RenderCell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return nullDisplay
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
