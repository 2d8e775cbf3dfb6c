package members

import (
	"context"
	"reflect"

	"go.uber.org/zap"

	"github.com/on-the-ground/compiled_reflect/errs"
	"github.com/on-the-ground/compiled_reflect/internal/cache"
	"github.com/on-the-ground/compiled_reflect/introspect"
	"github.com/on-the-ground/compiled_reflect/registry"
)

// Resolve returns the first field or property of t named name. When expected is not
// nil the member's value type must equal it exactly; otherwise the request fails with
// errs.ErrMissingMember just like an unknown name does.
func Resolve(ctx context.Context, t reflect.Type, name string, expected reflect.Type) (introspect.Member, error) {
	return resolve(registry.FromContext(ctx), t, name, expected)
}

func resolve(r *registry.Registry, t reflect.Type, name string, expected reflect.Type) (introspect.Member, error) {
	if t == nil {
		return introspect.Member{}, errs.MissingMember(nil, name, "no declaring type")
	}
	for _, m := range r.Introspector().Members(t, name) {
		if m.Kind != introspect.Field && m.Kind != introspect.Property {
			continue
		}
		if expected != nil && m.Type != expected {
			return introspect.Member{}, errs.MissingMember(t, name, "%s has type %s, not %s", m.Kind, m.Type, expected)
		}
		return m, nil
	}
	return introspect.Member{}, errs.MissingMember(t, name, "no public field or property")
}

type flavor string

const (
	accessorFlavor        flavor = "accessor"
	modifierFlavor        flavor = "modifier"
	untypedAccessorFlavor flavor = "untyped accessor"
	untypedModifierFlavor flavor = "untyped modifier"
	lambdaFlavor          flavor = "accessor lambda"
)

func (f flavor) writes() bool {
	return f == modifierFlavor || f == untypedModifierFlavor
}

const (
	pathOffset  = "offset"
	pathMethod  = "method"
	pathReflect = "reflect"
	pathExpr    = "expression"
)

// anyValue stands in for a nil value type in cache keys.
type anyValue struct{}

type builder func(m introspect.Member) (fn any, path string, err error)

// compiled serves fl for (t, name, v) from the registry cache, resolving and building it
// on a miss. Failures are returned to the caller and never stored.
func compiled(ctx context.Context, fl flavor, t reflect.Type, name string, v reflect.Type, build builder) (any, error) {
	if t == nil {
		return nil, errs.MissingMember(nil, name, "no declaring type")
	}
	r := registry.FromContext(ctx)
	store := r.Accessors()
	if fl.writes() {
		store = r.Modifiers()
	}

	var valueKey cache.Key = anyValue{}
	if v != nil {
		valueKey = v
	}

	var path string
	fn, loaded, err := store.LoadOrCompute(t.String(), []cache.Key{t, name, valueKey, fl}, func() (any, error) {
		m, err := resolve(r, t, name, v)
		if err != nil {
			return nil, err
		}
		var fn any
		fn, path, err = build(m)
		return fn, err
	})

	if err != nil || !loaded {
		logger := r.Logger().With(
			zap.String("type", t.String()),
			zap.String("member", name),
			zap.String("value", typeString(v)),
		)
		if err != nil {
			logger.Debug(string(fl)+" resolution failed", zap.Error(err))
			return nil, err
		}
		logger.Debug("compiled "+string(fl), zap.String("path", path))
	}
	return fn, nil
}

func typeString(t reflect.Type) string {
	if t == nil {
		return "any"
	}
	return t.String()
}

func readOnly(m introspect.Member) error {
	if m.Kind == introspect.Field {
		return errs.NotSupported(m.Declaring, m.Name, "field is only writable through a pointer to its struct")
	}
	return errs.NotSupported(m.Declaring, m.Name, "property has no Set%s method", m.Name)
}
