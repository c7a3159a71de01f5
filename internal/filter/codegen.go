package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Fixed join fragments. Each is added at most once per segment.
const (
	joinTicketTags = "ticket_tags ON tickets.id = ticket_tags.ticket_id"
	joinBuckets    = "buckets ON tickets.bucket_id = buckets.id"
)

// generate applies one instruction to the accumulated expression.
func generate(instr Instruction, env Environment, expr *expression) error {
	switch in := instr.(type) {
	case WithState:
		state, ok := Text(in.State, env)
		if !ok {
			return wrongType(in)
		}
		expr.addPredicate("tickets.state_name = " + quoteLiteral(state))

	case WithTag:
		tag, ok := Text(in.Tag, env)
		if !ok {
			return wrongType(in)
		}
		expr.addPredicate("ticket_tags.tag_name = " + quoteLiteral(tag))
		expr.addJoin(joinTicketTags)

	case InBucket:
		bucket, ok := Text(in.Bucket, env)
		if !ok {
			return wrongType(in)
		}
		expr.addPredicate("buckets.name = " + quoteLiteral(bucket))
		expr.addJoin(joinBuckets)

	case TitleContains:
		title, ok := Text(in.Title, env)
		if !ok {
			return wrongType(in)
		}
		expr.addPredicate("tickets.title LIKE " + quoteLiteral("%"+title+"%"))

	case DescriptionContains:
		desc, ok := Text(in.Description, env)
		if !ok {
			return wrongType(in)
		}
		expr.addPredicate("tickets.description LIKE " + quoteLiteral("%"+desc+"%"))

	case AssignedTo:
		users, ok := TextArray(in.Users, env)
		if !ok {
			return wrongType(in)
		}
		comparisons := make([]string, len(users))
		for i, user := range users {
			comparisons[i] = "tickets.assigned_to = " + quoteLiteral(user)
		}
		expr.addPredicate("(" + strings.Join(comparisons, " OR ") + ")")

	case DueInDays:
		days, ok := Number(in.Days, env)
		if !ok {
			return wrongType(in)
		}
		expr.addPredicate(dueBefore(days))

	case Join:
		if expr.isEmpty() {
			return NewSQLParseError("Join instruction in the beginning is not allowed.")
		}
		if expr.segmentEmpty() {
			return NewSQLParseError("Can't have more than one ;; after eachother.")
		}
		expr.flush()

	default:
		panic(fmt.Sprintf("filter: unhandled instruction %T", instr))
	}
	return nil
}

// dueBefore compares the due date against the start of today plus days,
// computed by the database.
func dueBefore(days int) string {
	return "tickets.due_at < (SELECT unixepoch('now','start of day','+" + strconv.Itoa(days) + " day'))"
}

func wrongType(instr Instruction) error {
	return NewSQLParseError("Wasn't able to parse %s because of wrong Parameter Type", instr.Kind().Keyword())
}
