package filter

import "strings"

// Interpreter compiles one filter expression into a SQL query.
//
// Usage is Tokenize once, then Compile. Compile drains the tokenized
// instructions, so a second Compile without a new Tokenize fails.
//
// An Interpreter is not safe for concurrent use; create one per validation
// or query.
type Interpreter struct {
	env          Env
	instructions []Instruction
	lastErr      error
}

// NewInterpreter creates an interpreter with an empty environment.
func NewInterpreter() *Interpreter {
	return &Interpreter{env: Env{}}
}

// SetVariable binds name to value for use as (::name).
func (in *Interpreter) SetVariable(name, value string) {
	in.env.Set(name, value)
}

// Environment returns the variables visible to filters.
func (in *Interpreter) Environment() Environment {
	return in.env
}

// Tokenize replaces the pending instructions with those parsed from code.
//
// Singleton instructions (title_contains, description_contains, due_in_days)
// are counted per call: each Tokenize starts with none of them used.
//
// On failure the pending list is cleared and the error is remembered, so a
// following Compile fails until a Tokenize succeeds.
func (in *Interpreter) Tokenize(code string) error {
	in.instructions = nil

	instructions, err := newPass(in.env).tokenize(code)
	if err != nil {
		in.lastErr = err
		return err
	}

	in.instructions = instructions
	in.lastErr = nil
	return nil
}

// LastError returns the error of the most recent failed Tokenize, or nil.
func (in *Interpreter) LastError() error {
	return in.lastErr
}

// Instructions returns a copy of the pending instructions.
func (in *Interpreter) Instructions() []Instruction {
	return append([]Instruction(nil), in.instructions...)
}

// Compile generates the SQL query for the pending instructions and
// consumes them. Either the whole query is produced or an error is returned.
func (in *Interpreter) Compile() (string, error) {
	if in.lastErr != nil {
		return "", NewSQLParseError("Cannot parse Instructions, because there was an Error when Tokenizing.")
	}
	if len(in.instructions) == 0 {
		return "", NewSQLParseError("Cannot parse Instruction, because nothing is in Buffer. Did you forget to tokenize first?")
	}

	pending := in.instructions
	in.instructions = nil

	expr := &expression{}
	for _, instr := range pending {
		if err := generate(instr, in.env, expr); err != nil {
			return "", err
		}
	}

	expr.flush()
	return expr.finish(), nil
}

// String renders the pending instructions, one per line.
func (in *Interpreter) String() string {
	lines := make([]string, len(in.instructions))
	for i, instr := range in.instructions {
		lines[i] = instr.String() + " "
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Compile tokenizes and compiles code in a fresh interpreter bound to env.
func Compile(code string, env map[string]string) (string, error) {
	in := NewInterpreter()
	for name, value := range env {
		in.SetVariable(name, value)
	}
	if err := in.Tokenize(code); err != nil {
		return "", err
	}
	return in.Compile()
}
