package dump

import (
	"fmt"
	"io"

	"db-dump/internal/schema"
)

// BatchStats counts what WriteInserts produced.
type BatchStats struct {
	Rows       int
	Statements int
}

// WriteInserts streams rows as multi-row INSERT statements of at most every
// rows each. A statement starts at every multiple of every and is closed
// with ";" when the next position is a multiple of every or the stream ends;
// rows inside a statement are separated by ",". The end of the stream is
// found by reading one row ahead, so Total is not trusted for it.
// Zero rows produce no output.
func WriteInserts(w io.Writer, table string, rows schema.RowStream, every int, esc Escaper) (BatchStats, error) {
	var stats BatchStats
	if every <= 0 {
		return stats, fmt.Errorf("%w: insert batch size must be positive, got %d", ErrInvalidConfig, every)
	}

	tw := &textWriter{w: w}
	if !rows.Next() {
		return stats, rows.Err()
	}
	cur := rows.Row()
	for pos := 0; ; pos++ {
		if pos%every == 0 {
			tw.printf("\nINSERT INTO %s VALUES", table)
			stats.Statements++
		}
		tw.str("\n")
		tw.str(SerializeRow(cur, esc))
		stats.Rows++

		more := rows.Next()
		if !more || (pos+1)%every == 0 {
			tw.str(";")
		} else {
			tw.str(",")
		}
		if tw.err != nil {
			return stats, tw.err
		}
		if !more {
			return stats, rows.Err()
		}
		cur = rows.Row()
	}
}

// textWriter keeps the first write error so callers can check once.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) str(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s)
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}
