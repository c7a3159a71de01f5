// Package filter compiles ticket filter expressions into SQL for the local
// ticket database.
//
// A filter is a sequence of instructions, each a keyword followed by one
// argument in parentheses:
//
//	with_state(open)
//	with_tag(bug) assigned_to(::me)
//	;;
//	in_bucket(default.bucket) due_in_days(7)
//
// Instructions inside a segment are ANDed. The ;; separator ends a segment;
// segments are combined with UNION. An argument is either literal text or a
// variable reference (::name) that must be bound in the Environment when the
// filter is tokenized. A variable is the whole argument; it cannot be mixed
// with literal items in a list.
//
// # Keywords
//
//	with_state(text)            tickets.state_name = 'text'
//	with_tag(text)              ticket_tags.tag_name = 'text'        (joins ticket_tags)
//	in_bucket(text)             buckets.name = 'text'                (joins buckets)
//	title_contains(text)        tickets.title LIKE '%text%'          (once per filter)
//	description_contains(text)  tickets.description LIKE '%text%'    (once per filter)
//	assigned_to(a, b, ...)      (tickets.assigned_to = 'a' OR ...)
//	due_in_days(n)              tickets.due_at < start of today + n days (once per filter)
//
// # Phases
//
// Tokenize parses the text into instructions. Every keyword is tried against
// the remaining input; when none matches, the messages of all alternatives
// are reported together. Compile then turns the instructions into a single
// SELECT ... UNION SELECT ... statement. Both phases are all-or-nothing.
//
// Argument text is interpolated into the generated SQL without escaping.
package filter
