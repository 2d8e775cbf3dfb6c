package introspect

import "reflect"

// MemberKind tells a field from a property.
type MemberKind int

const (
	Field MemberKind = iota + 1
	Property
)

func (k MemberKind) String() string {
	switch k {
	case Field:
		return "field"
	case Property:
		return "property"
	default:
		return "unknown"
	}
}

// Member describes a readable (and possibly writable) slot on a type.
// It is resolved once from a (type, name) pair and never changes afterwards.
type Member struct {
	Declaring reflect.Type
	Type      reflect.Type
	Name      string
	Kind      MemberKind

	// Index is the field path for FieldByIndex.
	Index []int
	// Offset is the byte offset of the field from the start of the declaring struct.
	// Only meaningful when Direct is true.
	Offset uintptr
	// Direct is true when no embedded pointer sits between the struct and the field.
	Direct bool
	// ViaPointer is true when Declaring is a pointer to the struct holding the field.
	ViaPointer bool

	Getter    reflect.Method
	Setter    reflect.Method
	HasSetter bool
}

// Writable reports whether a write through the declaring type reaches the caller's instance.
func (m Member) Writable() bool {
	switch m.Kind {
	case Field:
		return m.ViaPointer
	case Property:
		// A value-receiver setter reached through a struct value writes to a copy.
		return m.HasSetter && m.Declaring != nil &&
			(m.Declaring.Kind() == reflect.Pointer || m.Declaring.Kind() == reflect.Interface)
	default:
		return false
	}
}

// Introspector enumerates the members and constructors of a described type.
type Introspector interface {
	// Members returns every field or property of t named name, fields first.
	Members(t reflect.Type, name string) []Member
	// Constructors returns the constructors producing result, in the order they were made known.
	Constructors(result reflect.Type) []Constructor
}
