package introspect

import (
	"reflect"
)

var _ Introspector = Reflection{}

// Reflection answers introspection queries with package reflect.
// Constructors come from Table; a nil Table knows no constructors.
type Reflection struct {
	Table *Table
}

// NewReflection returns a Reflection backed by table, or by DefaultTable when table is nil.
func NewReflection(table *Table) Reflection {
	if table == nil {
		table = DefaultTable
	}
	return Reflection{Table: table}
}

func (r Reflection) Members(t reflect.Type, name string) []Member {
	if t == nil || name == "" {
		return nil
	}
	found := make([]Member, 0, 1)
	if m, ok := fieldOf(t, name); ok {
		found = append(found, m)
	}
	if m, ok := propertyOf(t, name); ok {
		found = append(found, m)
	}
	return found
}

func (r Reflection) Constructors(result reflect.Type) []Constructor {
	if r.Table == nil {
		return nil
	}
	return r.Table.Constructors(result)
}

func fieldOf(t reflect.Type, name string) (Member, bool) {
	st := t
	viaPointer := false
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
		viaPointer = true
	}
	if st.Kind() != reflect.Struct {
		return Member{}, false
	}

	sf, ok := st.FieldByName(name)
	if !ok || !sf.IsExported() {
		return Member{}, false
	}

	offset, direct := fieldOffset(st, sf.Index)
	return Member{
		Declaring:  t,
		Type:       sf.Type,
		Name:       name,
		Kind:       Field,
		Index:      sf.Index,
		Offset:     offset,
		Direct:     direct,
		ViaPointer: viaPointer,
	}, true
}

// fieldOffset sums the offsets along an index path. The path is direct only when
// every intermediate hop is an embedded struct value rather than a pointer.
func fieldOffset(st reflect.Type, index []int) (uintptr, bool) {
	var offset uintptr
	cur := st
	for i, idx := range index {
		f := cur.Field(idx)
		offset += f.Offset
		if i == len(index)-1 {
			break
		}
		next := f.Type
		if next.Kind() == reflect.Pointer {
			return 0, false
		}
		cur = next
	}
	return offset, true
}

func propertyOf(t reflect.Type, name string) (Member, bool) {
	getter, ok := t.MethodByName(name)
	if !ok || !getter.IsExported() {
		return Member{}, false
	}
	recv := receiverCount(t)
	gt := getter.Type
	if gt.IsVariadic() || gt.NumIn() != recv || gt.NumOut() != 1 {
		return Member{}, false
	}

	m := Member{
		Declaring: t,
		Type:      gt.Out(0),
		Name:      name,
		Kind:      Property,
		Getter:    getter,
	}

	if setter, ok := t.MethodByName("Set" + name); ok {
		st := setter.Type
		if !st.IsVariadic() && st.NumIn() == recv+1 && st.NumOut() == 0 && st.In(recv) == m.Type {
			m.Setter = setter
			m.HasSetter = true
		}
	}
	return m, true
}

// receiverCount is 1 for concrete types, whose method types include the receiver,
// and 0 for interface types, whose method types do not.
func receiverCount(t reflect.Type) int {
	if t.Kind() == reflect.Interface {
		return 0
	}
	return 1
}
