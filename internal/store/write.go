package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// WriteBucket inserts or updates a bucket and refreshes its LastChange.
//
// A bucket with ID 0 is inserted and receives its new ID. Any other ID is
// upserted; tickets in the bucket are untouched.
func (s *Store) WriteBucket(ctx context.Context, b *Bucket) error {
	b.LastChange = s.now()

	if b.ID == 0 {
		query, args, err := sq.Insert("buckets").
			Columns("name", "last_change").
			Values(b.Name, marshalTime(b.LastChange)).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("write bucket: %w", err)
		}
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&b.ID); err != nil {
			return fmt.Errorf("write bucket: %w", err)
		}
		return nil
	}

	query, args, err := sq.Insert("buckets").
		Columns("id", "name", "last_change").
		Values(b.ID, b.Name, marshalTime(b.LastChange)).
		Suffix("ON CONFLICT(id) DO UPDATE SET name = excluded.name, last_change = excluded.last_change").
		ToSql()
	if err != nil {
		return fmt.Errorf("write bucket: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write bucket: %w", err)
	}
	return nil
}

// WriteState inserts or replaces a state by name.
func (s *Store) WriteState(ctx context.Context, st State) error {
	query, args, err := sq.Insert("states").
		Columns("name", "description", "sorting_order").
		Values(st.Name, nullString(st.Description), st.SortingOrder).
		Suffix("ON CONFLICT(name) DO UPDATE SET description = excluded.description, sorting_order = excluded.sorting_order").
		ToSql()
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write state %q: %w", st.Name, err)
	}
	return nil
}

// WriteTag inserts or replaces a tag by name.
func (s *Store) WriteTag(ctx context.Context, tag Tag) error {
	query, args, err := sq.Insert("tags").
		Columns("name", "color", "color_text").
		Values(tag.Name, tag.Color, tag.TextColor).
		Suffix("ON CONFLICT(name) DO UPDATE SET color = excluded.color, color_text = excluded.color_text").
		ToSql()
	if err != nil {
		return fmt.Errorf("write tag: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write tag %q: %w", tag.Name, err)
	}
	return nil
}

// WriteFilter inserts or replaces a saved filter by name.
// The operation is stored as given; callers validate it first.
func (s *Store) WriteFilter(ctx context.Context, f Filter) error {
	query, args, err := sq.Insert("filters").
		Columns("name", "operation").
		Values(f.Name, f.Operation).
		Suffix("ON CONFLICT(name) DO UPDATE SET operation = excluded.operation").
		ToSql()
	if err != nil {
		return fmt.Errorf("write filter: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write filter %q: %w", f.Name, err)
	}
	return nil
}

// WriteTicket inserts or updates a ticket together with its tags.
//
// A ticket with ID 0 is inserted and receives its new ID; a zero CreatedAt
// is set from the store clock. The ticket's tag links are replaced by
// t.Tags. The whole write runs in one transaction.
func (s *Store) WriteTicket(ctx context.Context, t *Ticket) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write ticket: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	values := []any{
		t.BucketID,
		t.Title,
		t.State,
		nullString(t.Description),
		marshalTime(t.CreatedAt),
		marshalTime(t.DueAt),
		nullString(t.AssignedTo),
	}
	columns := []string{"bucket_id", "title", "state_name", "description", "created_at", "due_at", "assigned_to"}

	if t.ID == 0 {
		query, args, err := sq.Insert("tickets").
			Columns(columns...).
			Values(values...).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("write ticket: %w", err)
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&t.ID); err != nil {
			return fmt.Errorf("write ticket: insert: %w", err)
		}
	} else {
		query, args, err := sq.Insert("tickets").
			Columns(append([]string{"id"}, columns...)...).
			Values(append([]any{t.ID}, values...)...).
			Suffix(`ON CONFLICT(id) DO UPDATE SET
				bucket_id = excluded.bucket_id,
				title = excluded.title,
				state_name = excluded.state_name,
				description = excluded.description,
				created_at = excluded.created_at,
				due_at = excluded.due_at,
				assigned_to = excluded.assigned_to`).
			ToSql()
		if err != nil {
			return fmt.Errorf("write ticket: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("write ticket %d: %w", t.ID, err)
		}
	}

	query, args, err := sq.Delete("ticket_tags").Where(sq.Eq{"ticket_id": t.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("write ticket: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write ticket %d: clear tags: %w", t.ID, err)
	}

	if len(t.Tags) > 0 {
		insert := sq.Insert("ticket_tags").Columns("ticket_id", "tag_name")
		for _, tag := range t.Tags {
			insert = insert.Values(t.ID, tag)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("write ticket: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("write ticket %d: tags: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write ticket: commit: %w", err)
	}
	return nil
}

// DropTicket deletes a ticket. Its tag links are removed with it.
func (s *Store) DropTicket(ctx context.Context, id int64) error {
	return s.drop(ctx, "tickets", sq.Eq{"id": id})
}

// DropBucket deletes a bucket. Tickets in the bucket are not deleted.
func (s *Store) DropBucket(ctx context.Context, id int64) error {
	return s.drop(ctx, "buckets", sq.Eq{"id": id})
}

// DropTag deletes a tag definition. Tickets keep their tag links.
func (s *Store) DropTag(ctx context.Context, name string) error {
	return s.drop(ctx, "tags", sq.Eq{"name": name})
}

// DropFilter deletes a saved filter. Dropping a missing filter is not an error.
func (s *Store) DropFilter(ctx context.Context, name string) error {
	return s.drop(ctx, "filters", sq.Eq{"name": name})
}

func (s *Store) drop(ctx context.Context, table string, where sq.Eq) error {
	query, args, err := sq.Delete(table).Where(where).ToSql()
	if err != nil {
		return fmt.Errorf("drop from %s: %w", table, err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("drop from %s: %w", table, err)
	}
	return nil
}
