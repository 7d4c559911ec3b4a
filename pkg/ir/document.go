package ir

// Decl is one named, not-yet-resolved type declaration in document order.
type Decl struct {
	Name   string
	Node   *TypeNode
	Origin Origin
}

// Document is the unresolved node tree an ingestion adapter hands to the
// resolution pipeline. Reference nodes still carry raw source pointers and
// nothing has been deduplicated or ordered yet.
type Document struct {
	// Decls keeps the declaration order of the source document.
	Decls []Decl
	// Operations holds the raw route entries of an interface-specification
	// source; empty for the other input kinds. Their nodes are unresolved.
	Operations []Operation
}

// Decl returns the declaration with the given name, if present.
func (d *Document) Decl(name string) (*Decl, bool) {
	for i := range d.Decls {
		if d.Decls[i].Name == name {
			return &d.Decls[i], true
		}
	}
	return nil, false
}
