package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// ErrNotFound is returned by single-row reads when no row matches.
var ErrNotFound = errors.New("not found")

// ticketColumns is the column order of the tickets table, which is also the
// order of tickets.* in compiled filter queries.
var ticketColumns = []string{
	"id", "bucket_id", "title", "state_name", "description", "created_at", "due_at", "assigned_to",
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// ListBuckets returns all buckets ordered by id.
//
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListBuckets(ctx context.Context) ([]Bucket, error) {
	query, args, err := sq.Select("id", "name", "last_change").From("buckets").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query buckets: %w", err)
	}
	defer rows.Close()

	buckets := []Bucket{}
	for rows.Next() {
		var (
			b          Bucket
			lastChange sql.NullInt64
		)
		if err := rows.Scan(&b.ID, &b.Name, &lastChange); err != nil {
			return nil, fmt.Errorf("scan bucket: %w", err)
		}
		b.LastChange = unmarshalTime(lastChange)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate buckets: %w", err)
	}
	return buckets, nil
}

// ListStates returns all states ordered by sorting order, then name.
func (s *Store) ListStates(ctx context.Context) ([]State, error) {
	query, args, err := sq.Select("name", "description", "sorting_order").
		From("states").
		OrderBy("sorting_order ASC", "name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("list states: %w", err)
	}
	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query states: %w", err)
	}
	defer rows.Close()

	states := []State{}
	for rows.Next() {
		var (
			st   State
			desc sql.NullString
		)
		if err := rows.Scan(&st.Name, &desc, &st.SortingOrder); err != nil {
			return nil, fmt.Errorf("scan state: %w", err)
		}
		st.Description = desc.String
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate states: %w", err)
	}
	return states, nil
}

// ListTags returns all tags ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]Tag, error) {
	query, args, err := sq.Select("name", "color", "color_text").From("tags").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.Name, &tag.Color, &tag.TextColor); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

// ListFilters returns all saved filters ordered by name.
func (s *Store) ListFilters(ctx context.Context) ([]Filter, error) {
	query, args, err := sq.Select("name", "operation").From("filters").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("list filters: %w", err)
	}
	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query filters: %w", err)
	}
	defer rows.Close()

	filters := []Filter{}
	for rows.Next() {
		var f Filter
		if err := rows.Scan(&f.Name, &f.Operation); err != nil {
			return nil, fmt.Errorf("scan filter: %w", err)
		}
		filters = append(filters, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate filters: %w", err)
	}
	return filters, nil
}

// GetFilter returns the saved filter with the given name.
// Returns ErrNotFound if no such filter exists.
func (s *Store) GetFilter(ctx context.Context, name string) (Filter, error) {
	query, args, err := sq.Select("name", "operation").From("filters").Where(sq.Eq{"name": name}).ToSql()
	if err != nil {
		return Filter{}, fmt.Errorf("get filter: %w", err)
	}

	var f Filter
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&f.Name, &f.Operation)
	if errors.Is(err, sql.ErrNoRows) {
		return Filter{}, fmt.Errorf("filter %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return Filter{}, fmt.Errorf("get filter %q: %w", name, err)
	}
	return f, nil
}

// GetTicket returns the ticket with the given id, including its tags.
// Returns ErrNotFound if no such ticket exists.
func (s *Store) GetTicket(ctx context.Context, id int64) (Ticket, error) {
	query, args, err := sq.Select(ticketColumns...).From("tickets").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return Ticket{}, fmt.Errorf("get ticket: %w", err)
	}

	t, err := scanTicket(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Ticket{}, fmt.Errorf("ticket %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Ticket{}, fmt.Errorf("get ticket %d: %w", id, err)
	}

	if t.Tags, err = s.ticketTags(ctx, t.ID); err != nil {
		return Ticket{}, err
	}
	return t, nil
}

// ListTickets returns every ticket ordered by id, including tags.
func (s *Store) ListTickets(ctx context.Context) ([]Ticket, error) {
	query, _, err := sq.Select(ticketColumns...).From("tickets").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return s.QueryTickets(ctx, query)
}

// QueryTickets runs a query that selects tickets.* and returns the matching
// tickets with their tags filled in.
//
// The query is typically the output of the filter compiler and is executed
// as given. Row order is whatever the query produces.
func (s *Store) QueryTickets(ctx context.Context, query string) ([]Ticket, error) {
	rows, err := s.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}

	tickets := []Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	// Release the only connection before the tag lookups.
	rows.Close()

	for i := range tickets {
		tags, err := s.ticketTags(ctx, tickets[i].ID)
		if err != nil {
			return nil, err
		}
		tickets[i].Tags = tags
	}
	return tickets, nil
}

// ticketTags returns the tag names linked to a ticket, in insertion order.
func (s *Store) ticketTags(ctx context.Context, ticketID int64) ([]string, error) {
	query, args, err := sq.Select("tag_name").
		From("ticket_tags").
		Where(sq.Eq{"ticket_tags.ticket_id": ticketID}).
		OrderBy("rowid ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ticket tags: %w", err)
	}
	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags of ticket %d: %w", ticketID, err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag of ticket %d: %w", ticketID, err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags of ticket %d: %w", ticketID, err)
	}
	return tags, nil
}

func scanTicket(row rowScanner) (Ticket, error) {
	var (
		t           Ticket
		description sql.NullString
		createdAt   sql.NullInt64
		dueAt       sql.NullInt64
		assignedTo  sql.NullString
	)
	err := row.Scan(&t.ID, &t.BucketID, &t.Title, &t.State, &description, &createdAt, &dueAt, &assignedTo)
	if err != nil {
		return Ticket{}, err
	}
	t.Description = description.String
	t.CreatedAt = unmarshalTime(createdAt)
	t.DueAt = unmarshalTime(dueAt)
	t.AssignedTo = assignedTo.String
	return t, nil
}
