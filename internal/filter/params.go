package filter

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// variableMarker prefixes a variable reference inside an argument: (::name).
const variableMarker = "::"

// Environment is the read-only set of variables a filter may reference.
type Environment interface {
	Has(name string) bool
	Lookup(name string) (string, bool)
}

// Env is a map-backed Environment.
type Env map[string]string

// Has reports whether name is bound.
func (e Env) Has(name string) bool {
	_, ok := e[name]
	return ok
}

// Lookup returns the text bound to name.
func (e Env) Lookup(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

// Set binds name to value.
func (e Env) Set(name, value string) {
	e[name] = value
}

// ValueType is the semantic type an instruction requires of its argument.
type ValueType int

const (
	TypeText ValueType = iota
	TypeTextArray
	TypeNumber
	TypeBoolean
)

func (t ValueType) String() string {
	switch t {
	case TypeText:
		return "Text"
	case TypeTextArray:
		return "TextArray"
	case TypeNumber:
		return "Number"
	case TypeBoolean:
		return "Boolean"
	default:
		return "ValueType(" + strconv.Itoa(int(t)) + ")"
	}
}

// Parameter is the single argument of an instruction: either a Literal or a
// Variable.
type Parameter interface {
	// raw returns the text this parameter stands for in env.
	raw(env Environment) (string, bool)
	// String renders the parameter the way it is written in a filter.
	String() string
	param()
}

// Literal is argument text written directly in the filter.
type Literal struct {
	Value string
}

// Variable references a name bound in the Environment.
type Variable struct {
	Name string
}

func (Literal) param()  {}
func (Variable) param() {}

func (l Literal) raw(Environment) (string, bool) {
	return l.Value, true
}

func (v Variable) raw(env Environment) (string, bool) {
	if env == nil {
		return "", false
	}
	return env.Lookup(v.Name)
}

func (l Literal) String() string {
	return "(" + l.Value + ")"
}

func (v Variable) String() string {
	return "(" + variableMarker + v.Name + ")"
}

// Text resolves p to its raw text.
func Text(p Parameter, env Environment) (string, bool) {
	return p.raw(env)
}

// TextArray resolves p to a comma separated list with every item trimmed.
func TextArray(p Parameter, env Environment) ([]string, bool) {
	s, ok := p.raw(env)
	if !ok {
		return nil, false
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

// Number resolves p to a signed 32-bit integer.
func Number(p Parameter, env Environment) (int, bool) {
	s, ok := p.raw(env)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// Boolean resolves p to a truth value. Accepted spellings are yes/no,
// true/false and 1/0, ignoring case and surrounding whitespace.
func Boolean(p Parameter, env Environment) (bool, bool) {
	s, ok := p.raw(env)
	if !ok {
		return false, false
	}
	switch cases.Lower(language.Und).String(strings.TrimSpace(s)) {
	case "yes", "true", "1":
		return true, true
	case "no", "false", "0":
		return false, true
	default:
		return false, false
	}
}

// Resolves reports whether p can be read as type t in env.
func Resolves(p Parameter, t ValueType, env Environment) bool {
	var ok bool
	switch t {
	case TypeText:
		_, ok = Text(p, env)
	case TypeTextArray:
		_, ok = TextArray(p, env)
	case TypeNumber:
		_, ok = Number(p, env)
	case TypeBoolean:
		_, ok = Boolean(p, env)
	}
	return ok
}

// tokenizeVariable reads "(::name)". The name must already be bound in env.
func tokenizeVariable(env Environment, code string) (Variable, string, error) {
	rest := strings.TrimLeftFunc(code, isSpace)
	if !strings.HasPrefix(rest, "("+variableMarker) {
		return Variable{}, "", NewTokenizationError("Expected (:: for Variable")
	}
	rest = rest[len("("+variableMarker):]

	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return Variable{}, "", NewTokenizationError("Expected ) for Variable")
	}
	name := strings.TrimSpace(rest[:end])
	rest = rest[end+1:]

	if env == nil || !env.Has(name) {
		return Variable{}, "", NewTokenizationError("%s%s is not known.", variableMarker, name)
	}
	return Variable{Name: name}, rest, nil
}

// tokenizeLiteral reads "(text)". Text starting with the variable marker is
// rejected so the two argument forms never overlap.
func tokenizeLiteral(code string) (Literal, string, error) {
	rest := strings.TrimLeftFunc(code, isSpace)
	if !strings.HasPrefix(rest, "(") {
		return Literal{}, "", NewTokenizationError("Expected ( for Literal")
	}
	if strings.HasPrefix(rest, "("+variableMarker) {
		return Literal{}, "", NewTokenizationError("Not allowed to interpret :: as Literal")
	}
	rest = rest[1:]

	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return Literal{}, "", NewTokenizationError("Expected ) for Literal")
	}
	value := strings.TrimSpace(rest[:end])
	rest = rest[end+1:]

	if value == "" {
		return Literal{}, "", NewTokenizationError("(...) cannot be empty!")
	}
	return Literal{Value: value}, rest, nil
}

// tokenizeParameter tries a Variable first, then a Literal. When both fail
// the two messages are reported together.
func tokenizeParameter(env Environment, code string) (Parameter, string, error) {
	v, rest, varErr := tokenizeVariable(env, code)
	if varErr == nil {
		return v, rest, nil
	}
	l, rest, litErr := tokenizeLiteral(code)
	if litErr == nil {
		return l, rest, nil
	}
	return nil, "", joinAlternatives([]string{message(varErr), message(litErr)})
}

// message extracts the bare message from a tokenizer error.
func message(err error) string {
	if te, ok := err.(TokenizationError); ok {
		return te.Message
	}
	return err.Error()
}
