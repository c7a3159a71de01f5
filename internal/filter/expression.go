package filter

import (
	"slices"
	"strings"
)

// baseTable is the table every segment selects from.
const baseTable = "tickets"

// expression accumulates the SQL for a compile pass. Joins and predicates
// belong to the current segment; flush moves the segment into finished.
type expression struct {
	finished   strings.Builder
	joins      []string
	predicates []string
}

// addJoin adds a join fragment unless the segment already has it.
func (e *expression) addJoin(fragment string) {
	if !slices.Contains(e.joins, fragment) {
		e.joins = append(e.joins, fragment)
	}
}

// addPredicate adds a predicate; predicates of a segment are ANDed.
func (e *expression) addPredicate(fragment string) {
	e.predicates = append(e.predicates, fragment)
}

// isEmpty reports whether nothing has been accumulated or flushed yet.
func (e *expression) isEmpty() bool {
	return e.finished.Len() == 0 && e.segmentEmpty()
}

// segmentEmpty reports whether the current segment has no content.
func (e *expression) segmentEmpty() bool {
	return len(e.joins) == 0 && len(e.predicates) == 0
}

// flush emits the current segment as one SELECT and starts a new segment.
// Every segment after the first is prefixed with UNION.
func (e *expression) flush() {
	if e.finished.Len() == 0 {
		e.finished.WriteString("SELECT tickets.* FROM ")
	} else {
		e.finished.WriteString(" UNION SELECT tickets.* FROM ")
	}

	source := baseTable
	for _, join := range e.joins {
		source = "(" + source + ") JOIN " + join
	}
	e.finished.WriteString(source)

	if len(e.predicates) > 0 {
		e.finished.WriteString(" WHERE ")
		e.finished.WriteString(strings.Join(e.predicates, " AND "))
	}

	e.joins = e.joins[:0]
	e.predicates = e.predicates[:0]
}

// finish terminates the statement.
func (e *expression) finish() string {
	return e.finished.String() + ";"
}

// quoteLiteral renders resolved filter text as a SQL string literal.
//
// The text is interpolated verbatim without escaping. Every resolved value
// that reaches the generated SQL passes through here.
func quoteLiteral(s string) string {
	return "'" + s + "'"
}
