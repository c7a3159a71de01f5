package filter

import (
	"strings"
	"unicode"
)

// usage tracks which singleton kinds were already produced during one
// tokenization pass.
type usage map[Kind]bool

// claim marks k as used. It fails if k is a singleton that was claimed before.
func (u usage) claim(k Kind) bool {
	if !k.Singleton() {
		return true
	}
	if u[k] {
		return false
	}
	u[k] = true
	return true
}

// pass is the state threaded through one tokenization: the variables that
// may be referenced and the singleton kinds seen so far.
type pass struct {
	env  Environment
	used usage
}

func newPass(env Environment) *pass {
	return &pass{env: env, used: usage{}}
}

// tokenizeKind reads one instruction of kind k from the start of code and
// returns it with the unconsumed remainder.
func (p *pass) tokenizeKind(k Kind, code string) (Instruction, string, error) {
	keyword := k.Keyword()
	rest := strings.TrimLeftFunc(code, isSpace)
	if !strings.HasPrefix(rest, keyword) {
		return nil, "", NewTokenizationError("Expected %s for Token", keyword)
	}
	rest = rest[len(keyword):]

	if k == KindJoin {
		return Join{}, rest, nil
	}

	param, rest, err := tokenizeParameter(p.env, rest)
	if err != nil {
		return nil, "", err
	}
	if !Resolves(param, k.ValueType(), p.env) {
		return nil, "", NewTokenizationError("Type of %s required for %s", k.ValueType(), keyword)
	}
	if !p.used.claim(k) {
		return nil, "", NewTokenizationError("Can't have more than one %s", keyword)
	}
	return newInstruction(k, param), rest, nil
}

// tokenizeInstruction tries every kind against code. The first success wins;
// if none succeeds, the message of every alternative is returned in order.
func (p *pass) tokenizeInstruction(code string) (Instruction, string, []string) {
	var (
		found    Instruction
		rest     string
		messages []string
	)
	for _, k := range Kinds() {
		instr, remainder, err := p.tokenizeKind(k, code)
		if err != nil {
			messages = append(messages, message(err))
			continue
		}
		if found == nil {
			found, rest = instr, remainder
		}
	}
	if found != nil {
		return found, rest, nil
	}
	return nil, "", messages
}

// tokenize consumes the whole input. On failure no instruction is returned.
func (p *pass) tokenize(code string) ([]Instruction, error) {
	var instructions []Instruction
	rest := strings.TrimLeftFunc(code, isSpace)
	for rest != "" {
		instr, remainder, messages := p.tokenizeInstruction(rest)
		if instr == nil {
			return nil, joinAlternatives(messages)
		}
		instructions = append(instructions, instr)
		rest = strings.TrimLeftFunc(remainder, isSpace)
	}
	return instructions, nil
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}
