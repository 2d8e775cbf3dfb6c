package introspect

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/on-the-ground/compiled_reflect/errs"
)

// Constructor is a registered function producing Result from Params.
type Constructor struct {
	Func   reflect.Value
	Result reflect.Type
	Name   string
	Params []reflect.Type
}

// Matches reports element-wise type equality with params.
func (c Constructor) Matches(params []reflect.Type) bool {
	if len(c.Params) != len(params) {
		return false
	}
	for i, p := range c.Params {
		if p != params[i] {
			return false
		}
	}
	return true
}

// DefaultTable is the table behind NewReflection(nil) and package-level Register.
var DefaultTable = NewTable()

// Register adds constructors to DefaultTable. Meant for init functions.
func Register(fns ...any) error {
	return DefaultTable.Register(fns...)
}

// Table is a concurrent, append-only list of constructors grouped by result type.
type Table struct {
	byResult map[reflect.Type][]Constructor
	mu       sync.RWMutex
}

func NewTable() *Table {
	return &Table{
		byResult: make(map[reflect.Type][]Constructor),
	}
}

// Register validates and appends each function. Nothing is registered if any function
// is invalid.
func (t *Table) Register(fns ...any) error {
	ctors := make([]Constructor, 0, len(fns))
	for _, fn := range fns {
		c, err := constructorOf(fn)
		if err != nil {
			return err
		}
		ctors = append(ctors, c)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range ctors {
		t.byResult[c.Result] = append(t.byResult[c.Result], c)
	}
	return nil
}

// MustRegister is the panic-on-failure variant of Register.
func (t *Table) MustRegister(fns ...any) *Table {
	if err := t.Register(fns...); err != nil {
		panic(err)
	}
	return t
}

// Constructors returns a snapshot in registration order.
func (t *Table) Constructors(result reflect.Type) []Constructor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	registered := t.byResult[result]
	out := make([]Constructor, len(registered))
	copy(out, registered)
	return out
}

func constructorOf(fn any) (Constructor, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return Constructor{}, errs.NotSupported(reflect.TypeOf(fn), "", "constructor must be a non-nil function")
	}
	ft := v.Type()
	name := funcName(v)
	if ft.IsVariadic() {
		return Constructor{}, errs.NotSupported(ft, name, "variadic constructors are not supported")
	}
	if ft.NumOut() != 1 {
		return Constructor{}, errs.NotSupported(ft, name, "constructor must return exactly one value, got %d", ft.NumOut())
	}

	params := make([]reflect.Type, ft.NumIn())
	for i := range params {
		params[i] = ft.In(i)
	}
	return Constructor{
		Func:   v,
		Result: ft.Out(0),
		Name:   name,
		Params: params,
	}, nil
}

func funcName(v reflect.Value) string {
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return fmt.Sprintf("func@%x", v.Pointer())
}
