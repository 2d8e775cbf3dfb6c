// Package introspect is the type introspection capability the resolvers query.
//
// It answers two questions about a described type: which public fields and properties
// carry a given name, and which constructors produce it. Everything above this package
// (member resolution, caches, invokers) treats it as a black box behind Introspector.
//
// Go has neither properties nor constructors, so both are conventions:
//
//   - A property X of value type V is an exported getter method X() V, optionally paired
//     with a setter SetX(V). A property without a setter is read-only.
//   - A constructor is any function func(P1, ..., Pn) R registered in a Table. Tables
//     report constructors in registration order.
//
// Reflection is the default Introspector. Other environments may supply a code-generated
// implementation of the same interface.
package introspect
