// Package members resolves fields and properties by name and turns them into cached,
// natively typed read and write functions.
//
// The first request for a (type, member, value type) triple resolves the member through
// the registry's introspector and compiles a callable for it; later requests are served
// from the registry cache. Fields on direct paths are read and written at their byte
// offset, properties are called through their method value, and everything else falls
// back to package reflect.
//
//	author, err := members.Accessor[*Book, string](ctx, "Author")
//	if err != nil {
//		return err
//	}
//	fmt.Println(author(book))
package members
