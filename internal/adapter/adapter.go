// Package adapter connects filter expressions to the local ticket database.
//
// An Adapter binds the filter environment from configuration (::me is the
// configured username), validates and compiles expressions with package
// filter, and runs the compiled SQL through the store. Every call gets a
// query id that is attached to its log lines.
package adapter

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/TheBiochemic/tickets/internal/config"
	"github.com/TheBiochemic/tickets/internal/filter"
	"github.com/TheBiochemic/tickets/internal/store"
)

// operationField is the form field validation errors are reported against.
const operationField = "operation"

// TicketStore is the part of the store the adapter uses.
type TicketStore interface {
	QueryTickets(ctx context.Context, query string) ([]store.Ticket, error)
	ListFilters(ctx context.Context) ([]store.Filter, error)
	GetFilter(ctx context.Context, name string) (store.Filter, error)
	WriteFilter(ctx context.Context, f store.Filter) error
	DropFilter(ctx context.Context, name string) error
}

// ValidationError is a problem with one field of a filter.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FilterInfo is a saved filter and whether it is builtin.
type FilterInfo struct {
	store.Filter `yaml:",inline"`
	Builtin      bool `json:"builtin" yaml:"builtin"`
}

// Adapter is the local ticket adapter.
//
// Thread-safety: Adapter is safe for concurrent use; each call creates its
// own interpreter.
type Adapter struct {
	store    TicketStore
	name     string
	display  string
	username string
	builtin  []string
	ids      IDGenerator
	logger   *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithIDGenerator replaces the query id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(a *Adapter) {
		a.ids = g
	}
}

// WithLogger replaces the logger (slog.Default() otherwise).
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = l
	}
}

// New creates an adapter over s configured by cfg.
//
// A nil s gives the same adapter as NewWithoutStore.
func New(s TicketStore, cfg *config.Config, opts ...Option) *Adapter {
	if s == nil {
		s = noStore{}
	}
	username := cfg.Username
	if username == "" {
		username = config.DefaultUsername
	}

	a := &Adapter{
		store:    s,
		name:     cfg.Adapter.Name,
		display:  cfg.Adapter.Display,
		username: username,
		ids:      UUIDv7Generator{},
		logger:   slog.Default(),
	}
	for _, f := range store.DefaultFilters(a.name) {
		a.builtin = append(a.builtin, f.Name)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewWithoutStore creates an adapter that only validates, tokenizes and
// compiles expressions. Calls that need the database fail with ErrNoStore.
func NewWithoutStore(cfg *config.Config, opts ...Option) *Adapter {
	return New(noStore{}, cfg, opts...)
}

// ErrNoStore is returned by an adapter created without a store.
var ErrNoStore = errors.New("adapter has no ticket store")

type noStore struct{}

func (noStore) QueryTickets(context.Context, string) ([]store.Ticket, error) { return nil, ErrNoStore }
func (noStore) ListFilters(context.Context) ([]store.Filter, error)          { return nil, ErrNoStore }
func (noStore) GetFilter(context.Context, string) (store.Filter, error) {
	return store.Filter{}, ErrNoStore
}
func (noStore) WriteFilter(context.Context, store.Filter) error { return ErrNoStore }
func (noStore) DropFilter(context.Context, string) error        { return ErrNoStore }

// Name returns the adapter name used to prefix builtin filters.
func (a *Adapter) Name() string {
	return a.name
}

// DisplayName returns the human-readable adapter name.
func (a *Adapter) DisplayName() string {
	return a.display
}

// Environment returns the variables bound for every expression.
func (a *Adapter) Environment() map[string]string {
	return map[string]string{"me": a.username}
}

func (a *Adapter) interpreter() *filter.Interpreter {
	in := filter.NewInterpreter()
	for name, value := range a.Environment() {
		in.SetVariable(name, value)
	}
	return in
}

// ValidateExpression tokenizes expr and reports the failure, if any, against
// the operation field. It returns nil for a valid expression.
//
// Only tokenization is checked; separator placement is reported by compile.
func (a *Adapter) ValidateExpression(expr string) []ValidationError {
	if err := a.interpreter().Tokenize(expr); err != nil {
		return []ValidationError{{Field: operationField, Message: err.Error()}}
	}
	return nil
}

// Tokenize parses expr and returns the canonical rendering of its
// instructions, one per line.
func (a *Adapter) Tokenize(expr string) (string, error) {
	in := a.interpreter()
	if err := in.Tokenize(expr); err != nil {
		return "", newExpressionError(err)
	}
	return in.String(), nil
}

// CompileExpression returns the SQL query for expr.
func (a *Adapter) CompileExpression(expr string) (string, error) {
	in := a.interpreter()
	if err := in.Tokenize(expr); err != nil {
		return "", newExpressionError(err)
	}
	query, err := in.Compile()
	if err != nil {
		return "", newExpressionError(err)
	}
	return query, nil
}

// ListTickets returns the tickets matching expr.
func (a *Adapter) ListTickets(ctx context.Context, expr string) ([]store.Ticket, error) {
	queryID := a.ids.Generate()
	log := a.logger.With("query_id", queryID, "adapter", a.name)

	query, err := a.CompileExpression(expr)
	if err != nil {
		log.Warn("filter expression rejected", "expression", expr, "error", err)
		return nil, err
	}
	log.Debug("filter compiled", "expression", expr, "sql", query)

	tickets, err := a.store.QueryTickets(ctx, query)
	if err != nil {
		log.Error("ticket query failed", "error", err)
		return nil, newAccessError("list tickets", err)
	}

	log.Info("tickets listed", "count", len(tickets))
	return tickets, nil
}

// ListFilterTickets returns the tickets matching the saved filter name.
func (a *Adapter) ListFilterTickets(ctx context.Context, name string) ([]store.Ticket, error) {
	f, err := a.getFilter(ctx, name)
	if err != nil {
		return nil, err
	}

	tickets, err := a.ListTickets(ctx, f.Operation)
	if err != nil {
		var ae *Error
		if errors.As(err, &ae) && ae.Filter == "" {
			ae.Filter = name
		}
		return nil, err
	}
	return tickets, nil
}

// Filters returns every saved filter, marking the builtin ones.
func (a *Adapter) Filters(ctx context.Context) ([]FilterInfo, error) {
	filters, err := a.store.ListFilters(ctx)
	if err != nil {
		return nil, newAccessError("list filters", err)
	}

	infos := make([]FilterInfo, len(filters))
	for i, f := range filters {
		infos[i] = FilterInfo{Filter: f, Builtin: a.IsBuiltin(f.Name)}
	}
	return infos, nil
}

// IsBuiltin reports whether name is one of this adapter's default filters.
func (a *Adapter) IsBuiltin(name string) bool {
	return slices.Contains(a.builtin, name)
}

// WriteFilter validates f.Operation and saves the filter.
// Builtin filters cannot be overwritten.
func (a *Adapter) WriteFilter(ctx context.Context, f store.Filter) error {
	log := a.logger.With("query_id", a.ids.Generate(), "adapter", a.name, "filter", f.Name)

	if a.IsBuiltin(f.Name) {
		log.Warn("refusing to overwrite builtin filter")
		return &Error{Code: ErrCodeReadOnly, Message: "builtin filters are read only", Filter: f.Name}
	}

	in := a.interpreter()
	if err := in.Tokenize(f.Operation); err != nil {
		log.Warn("filter expression rejected", "error", err)
		ae := newExpressionError(err)
		ae.Filter = f.Name
		return ae
	}

	if err := a.store.WriteFilter(ctx, f); err != nil {
		log.Error("filter write failed", "error", err)
		ae := newAccessError("write filter", err)
		ae.Filter = f.Name
		return ae
	}

	log.Info("filter saved")
	return nil
}

// DropFilter deletes a saved filter. Builtin filters cannot be dropped.
func (a *Adapter) DropFilter(ctx context.Context, name string) error {
	log := a.logger.With("query_id", a.ids.Generate(), "adapter", a.name, "filter", name)

	if a.IsBuiltin(name) {
		log.Warn("refusing to drop builtin filter")
		return &Error{Code: ErrCodeReadOnly, Message: "builtin filters are read only", Filter: name}
	}
	if _, err := a.getFilter(ctx, name); err != nil {
		return err
	}
	if err := a.store.DropFilter(ctx, name); err != nil {
		log.Error("filter drop failed", "error", err)
		return newAccessError("drop filter", err)
	}

	log.Info("filter dropped")
	return nil
}

func (a *Adapter) getFilter(ctx context.Context, name string) (store.Filter, error) {
	f, err := a.store.GetFilter(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return store.Filter{}, &Error{Code: ErrCodeNotFound, Message: "no such filter", Filter: name, Err: err}
	}
	if err != nil {
		ae := newAccessError("get filter", err)
		ae.Filter = name
		return store.Filter{}, ae
	}
	return f, nil
}
