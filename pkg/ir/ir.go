// Package ir defines the shared node vocabulary produced by the ingestion
// adapters and consumed by the resolution pipeline and renderers.
//
// Adapters emit TypeNode trees whose cross-references are raw pointer
// strings; the graph package resolves those pointers into canonical names
// and freezes the result into a TypeGraph. Once frozen, a TypeGraph is never
// mutated, so any number of renderers may read it concurrently.
package ir

// Kind identifies the variant of a TypeNode.
type Kind string

const (
	KindUnknown Kind = "unknown"
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindEnum    Kind = "enum"
	KindUnion   Kind = "union"
	KindMap     Kind = "map"
	KindRef     Kind = "ref"
)

// UnionMode records which composition construct produced a union.
type UnionMode string

const (
	UnionExactlyOne UnionMode = "oneOf"
	UnionAnyOf      UnionMode = "anyOf"
)

// Constraints is the bag of validation facets carried on a node. The core
// preserves them verbatim and never interprets them; renderers may.
type Constraints struct {
	Minimum   *float64
	Maximum   *float64
	MinLength *int
	MaxLength *int
	MinItems  *int
	MaxItems  *int
	Pattern   string
	Format    string
}

// Empty reports whether no constraint is set.
func (c Constraints) Empty() bool {
	return c.Minimum == nil && c.Maximum == nil &&
		c.MinLength == nil && c.MaxLength == nil &&
		c.MinItems == nil && c.MaxItems == nil &&
		c.Pattern == "" && c.Format == ""
}

// Field is one property of an object node. Properties keep document order.
type Field struct {
	Name     string
	Node     *TypeNode
	Required bool
}

// Discriminator carries an explicitly declared union discriminant. The core
// never infers one structurally.
type Discriminator struct {
	PropertyName string
	Mapping      map[string]string
}

// TypeNode is the tagged variant shared by every pipeline stage. Which
// fields are meaningful depends on Kind; everything else stays zero.
type TypeNode struct {
	Kind        Kind
	Nullable    bool
	Constraints Constraints

	// Object
	Properties []Field
	// Additional is the value type for extra properties, when declared.
	Additional *TypeNode
	// NoExtra is set when the source forbids undeclared properties.
	NoExtra bool

	// Array
	Items *TypeNode

	// Enum
	Enum     []any
	EnumBase Kind

	// Union
	Variants      []*TypeNode
	Union         UnionMode
	Discriminator *Discriminator

	// AllOf holds merge-all members awaiting normalization.
	AllOf []*TypeNode

	// Ref holds the raw source pointer before resolution and the canonical
	// type name afterwards.
	Ref string
}

// Origin records how a named type entered the graph.
type Origin string

const (
	// OriginExplicit types were declared by a schema source.
	OriginExplicit Origin = "explicit"
	// OriginInferred types were synthesized from raw data samples.
	OriginInferred Origin = "inferred"
)

// NamedType is one entry of the type graph.
type NamedType struct {
	Name   string
	Node   *TypeNode
	Origin Origin
	// Refs lists the canonical names this type references, in first-seen
	// order, self-references included.
	Refs []string
}

// TypeGraph is the finished, reference-resolved output of a run. It is
// immutable once built; see graph.Build.
type TypeGraph struct {
	// Order is the deterministic emission sequence: for any two names in
	// different components, dependencies precede dependents.
	Order []string
	// Types maps canonical name to definition. Every KindRef target in the
	// graph is a key of this map.
	Types map[string]*NamedType
	// Components is the strongly-connected-component partition in emission
	// order. A component of size >= 2, or of size 1 with a self-loop, is a
	// recursive type family.
	Components  [][]string
	componentOf map[string]int
}

// NewTypeGraph assembles a frozen graph. Callers must not mutate the
// arguments afterwards.
func NewTypeGraph(order []string, types map[string]*NamedType, components [][]string) *TypeGraph {
	byName := make(map[string]int, len(types))
	for i, comp := range components {
		for _, name := range comp {
			byName[name] = i
		}
	}
	return &TypeGraph{Order: order, Types: types, Components: components, componentOf: byName}
}

// Lookup returns the named type, if present.
func (g *TypeGraph) Lookup(name string) (*NamedType, bool) {
	t, ok := g.Types[name]
	return t, ok
}

// ComponentOf returns the SCC index for a name, or -1 when unknown.
func (g *TypeGraph) ComponentOf(name string) int {
	if i, ok := g.componentOf[name]; ok {
		return i
	}
	return -1
}

// Recursive reports whether name belongs to a recursive type family.
func (g *TypeGraph) Recursive(name string) bool {
	i := g.ComponentOf(name)
	if i < 0 {
		return false
	}
	if len(g.Components[i]) > 1 {
		return true
	}
	for _, ref := range g.Types[name].Refs {
		if ref == name {
			return true
		}
	}
	return false
}

// ParamLocation is where an operation parameter travels.
type ParamLocation string

const (
	InPath   ParamLocation = "path"
	InQuery  ParamLocation = "query"
	InHeader ParamLocation = "header"
)

// Param is one operation parameter bound to a graph node.
type Param struct {
	Name     string
	Location ParamLocation
	Required bool
	Type     *TypeNode
}

// Response binds a status code to a payload node. A nil Type is the empty
// marker: the response deliberately has no body.
type Response struct {
	Status string
	Type   *TypeNode
}

// Operation is one route+method from an interface-specification input. It
// references TypeGraph nodes but never owns or mutates them.
type Operation struct {
	Method string
	Path   string
	// Name is the derived method name (operationId when present, otherwise
	// synthesized from method and path).
	Name        string
	Tags        []string
	Summary     string
	Description string
	Deprecated  bool
	// Ungrouped is set when the source entry carried no grouping tag, so
	// tag-grouping renderers can skip it.
	Ungrouped    bool
	PathParams   []Param
	QueryParams  []Param
	HeaderParams []Param
	RequestBody  *TypeNode
	Responses    []Response
}

// RenderConfig is the renderer-facing slice of the run configuration.
type RenderConfig struct {
	// PackageName names the emitted artifact where the target needs one.
	PackageName string
	// Promises selects promise-style instead of stream-style signatures in
	// targets where both exist.
	Promises bool
	// WithValidation requests auxiliary runtime-validation output.
	WithValidation bool
	// Header is prepended as a comment to generated files, when set.
	Header string
}

// GenerationContext is the immutable bundle handed to renderers.
type GenerationContext struct {
	Graph      *TypeGraph
	Operations []Operation
	Config     RenderConfig
}

// File is one rendered output: a path relative to the output directory and
// its full text content.
type File struct {
	Path    string
	Content string
}
