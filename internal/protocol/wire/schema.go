package wire

import "fmt"

// Action records what the decode loop did with one field.
type Action uint8

const (
	ActionSet Action = iota
	ActionSkip
	ActionFallback
	ActionTruncated
)

func (a Action) String() string {
	switch a {
	case ActionSet:
		return "set"
	case ActionSkip:
		return "skip"
	case ActionFallback:
		return "fallback"
	case ActionTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(b []byte) error {
	for _, c := range []Action{ActionSet, ActionSkip, ActionFallback, ActionTruncated} {
		if c.String() == string(b) {
			*a = c
			return nil
		}
	}
	return fmt.Errorf("wire: unknown action %q", b)
}

// FieldEvent is one entry of a decode trace.
type FieldEvent struct {
	Field  uint32   `json:"field"`
	Type   WireType `json:"type"`
	Name   string   `json:"name,omitempty"`
	Len    int      `json:"len,omitempty"`
	Action Action   `json:"action"`
}

// Trace summarizes one Decode call.
type Trace struct {
	Schema   string       `json:"schema"`
	Events   []FieldEvent `json:"events"`
	Consumed int          `json:"consumed"`
	Halted   bool         `json:"halted"`
}

// Setter stores a decoded value into msg.
type Setter[T any] func(msg *T, v Value)

// FieldSpec binds a field number and wire type to a setter. A field accepted
// under several wire types gets one spec per type.
type FieldSpec[T any] struct {
	Field uint32
	Type  WireType
	Name  string
	Set   Setter[T]
}

// Fallback is offered every length-delimited field whose number the schema
// does not know. It reports whether it kept the value.
type Fallback[T any] func(msg *T, field uint32, v Value) bool

// Schema is a field table plus the shared tag-dispatch loop.
type Schema[T any] struct {
	name     string
	fields   map[Tag]FieldSpec[T]
	numbers  map[uint32]struct{}
	fallback Fallback[T]
}

func NewSchema[T any](name string, specs ...FieldSpec[T]) *Schema[T] {
	s := &Schema[T]{
		name:    name,
		fields:  make(map[Tag]FieldSpec[T], len(specs)),
		numbers: make(map[uint32]struct{}, len(specs)),
	}
	for _, spec := range specs {
		s.fields[Tag{Field: spec.Field, Type: spec.Type}] = spec
		s.numbers[spec.Field] = struct{}{}
	}
	return s
}

// WithFallback returns a copy of s that offers unknown length-delimited
// fields to fb. A nil fb disables the fallback.
func (s *Schema[T]) WithFallback(fb Fallback[T]) *Schema[T] {
	cp := *s
	cp.fallback = fb
	return &cp
}

func (s *Schema[T]) Name() string {
	return s.name
}

// Known reports whether field appears in the table under any wire type.
func (s *Schema[T]) Known(field uint32) bool {
	_, ok := s.numbers[field]
	return ok
}

// Decode runs the dispatch loop over b, populating msg. A short fixed-width
// field is left at its default and the loop moves on to the next tag; a
// length prefix longer than the remaining input ends the loop.
func (s *Schema[T]) Decode(b []byte, msg *T) Trace {
	tr := Trace{Schema: s.name}
	r := NewReader(b)
	for r.More() {
		tag := r.ReadTag()
		v, ok := r.ReadValue(tag.Type)
		ev := FieldEvent{Field: tag.Field, Type: tag.Type, Len: len(v.Bytes)}
		if !ok {
			ev.Action = ActionTruncated
			tr.Events = append(tr.Events, ev)
			if r.Halted() {
				break
			}
			continue
		}
		if spec, known := s.fields[tag]; known {
			spec.Set(msg, v)
			ev.Name = spec.Name
			ev.Action = ActionSet
		} else if s.offerFallback(msg, tag, v) {
			ev.Action = ActionFallback
		} else {
			ev.Action = ActionSkip
		}
		tr.Events = append(tr.Events, ev)
	}
	tr.Consumed = r.Offset()
	tr.Halted = r.Halted()
	return tr
}

func (s *Schema[T]) offerFallback(msg *T, tag Tag, v Value) bool {
	if s.fallback == nil || tag.Type != LengthDelimited || s.Known(tag.Field) {
		return false
	}
	return s.fallback(msg, tag.Field, v)
}
