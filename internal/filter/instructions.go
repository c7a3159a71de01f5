package filter

import "fmt"

// Kind identifies one instruction keyword.
type Kind int

const (
	KindWithState Kind = iota
	KindWithTag
	KindInBucket
	KindTitleContains
	KindDescriptionContains
	KindAssignedTo
	KindDueInDays
	KindJoin
)

// joinKeyword separates two segments of a filter.
const joinKeyword = ";;"

// kindSpec describes how an instruction kind is written and checked.
type kindSpec struct {
	keyword   string
	valueType ValueType
	singleton bool
}

// kindSpecs is indexed by Kind. The order is also the order in which the
// tokenizer tries the alternatives.
var kindSpecs = [...]kindSpec{
	KindWithState:           {keyword: "with_state", valueType: TypeText},
	KindWithTag:             {keyword: "with_tag", valueType: TypeText},
	KindInBucket:            {keyword: "in_bucket", valueType: TypeText},
	KindTitleContains:       {keyword: "title_contains", valueType: TypeText, singleton: true},
	KindDescriptionContains: {keyword: "description_contains", valueType: TypeText, singleton: true},
	KindAssignedTo:          {keyword: "assigned_to", valueType: TypeTextArray},
	KindDueInDays:           {keyword: "due_in_days", valueType: TypeNumber, singleton: true},
	KindJoin:                {keyword: joinKeyword},
}

// Kinds lists every instruction kind in tokenizer order.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindSpecs))
	for i := range kindSpecs {
		kinds[i] = Kind(i)
	}
	return kinds
}

func (k Kind) spec() kindSpec {
	if k < 0 || int(k) >= len(kindSpecs) {
		panic(fmt.Sprintf("filter: unknown instruction kind %d", int(k)))
	}
	return kindSpecs[k]
}

// Keyword returns the text that introduces k in a filter.
func (k Kind) Keyword() string { return k.spec().keyword }

// ValueType returns the type k requires of its argument.
func (k Kind) ValueType() ValueType { return k.spec().valueType }

// Singleton reports whether k may appear at most once per tokenization.
func (k Kind) Singleton() bool { return k.spec().singleton }

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindSpecs) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindSpecs[k].keyword
}

// Instruction is one parsed clause of a filter.
type Instruction interface {
	Kind() Kind
	// String renders the instruction as it would be written in a filter.
	String() string
	instruction()
}

// WithState matches tickets in the named state.
type WithState struct{ State Parameter }

// WithTag matches tickets carrying the named tag.
type WithTag struct{ Tag Parameter }

// InBucket matches tickets inside the named bucket.
type InBucket struct{ Bucket Parameter }

// TitleContains matches tickets whose title contains the text.
type TitleContains struct{ Title Parameter }

// DescriptionContains matches tickets whose description contains the text.
type DescriptionContains struct{ Description Parameter }

// AssignedTo matches tickets assigned to any of the listed users.
type AssignedTo struct{ Users Parameter }

// DueInDays matches tickets due before the start of today plus N days.
type DueInDays struct{ Days Parameter }

// Join ends the current segment; segments are combined with UNION.
type Join struct{}

func (WithState) Kind() Kind           { return KindWithState }
func (WithTag) Kind() Kind             { return KindWithTag }
func (InBucket) Kind() Kind            { return KindInBucket }
func (TitleContains) Kind() Kind       { return KindTitleContains }
func (DescriptionContains) Kind() Kind { return KindDescriptionContains }
func (AssignedTo) Kind() Kind          { return KindAssignedTo }
func (DueInDays) Kind() Kind           { return KindDueInDays }
func (Join) Kind() Kind                { return KindJoin }

func (WithState) instruction()           {}
func (WithTag) instruction()             {}
func (InBucket) instruction()            {}
func (TitleContains) instruction()       {}
func (DescriptionContains) instruction() {}
func (AssignedTo) instruction()          {}
func (DueInDays) instruction()           {}
func (Join) instruction()                {}

func (i WithState) String() string           { return render(i) }
func (i WithTag) String() string             { return render(i) }
func (i InBucket) String() string            { return render(i) }
func (i TitleContains) String() string       { return render(i) }
func (i DescriptionContains) String() string { return render(i) }
func (i AssignedTo) String() string          { return render(i) }
func (i DueInDays) String() string           { return render(i) }
func (Join) String() string                  { return joinKeyword }

// render writes keyword(argument) for parameterized instructions.
func render(i Instruction) string {
	p := ParameterOf(i)
	if p == nil {
		return i.Kind().Keyword()
	}
	return i.Kind().Keyword() + p.String()
}

// ParameterOf returns the argument of i, or nil for Join.
func ParameterOf(i Instruction) Parameter {
	switch in := i.(type) {
	case WithState:
		return in.State
	case WithTag:
		return in.Tag
	case InBucket:
		return in.Bucket
	case TitleContains:
		return in.Title
	case DescriptionContains:
		return in.Description
	case AssignedTo:
		return in.Users
	case DueInDays:
		return in.Days
	case Join:
		return nil
	default:
		panic(fmt.Sprintf("filter: unhandled instruction %T", i))
	}
}

// newInstruction wraps p in the instruction type belonging to k.
func newInstruction(k Kind, p Parameter) Instruction {
	switch k {
	case KindWithState:
		return WithState{State: p}
	case KindWithTag:
		return WithTag{Tag: p}
	case KindInBucket:
		return InBucket{Bucket: p}
	case KindTitleContains:
		return TitleContains{Title: p}
	case KindDescriptionContains:
		return DescriptionContains{Description: p}
	case KindAssignedTo:
		return AssignedTo{Users: p}
	case KindDueInDays:
		return DueInDays{Days: p}
	case KindJoin:
		return Join{}
	default:
		panic(fmt.Sprintf("filter: unknown instruction kind %d", int(k)))
	}
}
