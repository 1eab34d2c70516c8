package schema

// StructNode describes an ordered, named collection of fields. It is the
// only schema node that can be the root of an encode/decode call.
type StructNode struct {
	order    []string
	byName   map[string]Field
	byNumber map[uint16]Field
}

func (*StructNode) Tag() TypeTag { return Struct }
func (*StructNode) isNode()      {}

// Struct builds an immutable struct schema from fields, in declaration
// order. It panics if two fields share a Name -- within a single
// declaration that is always a programmer mistake, unlike the merge case
// below where a name collision is the whole point.
func Struct(fields ...Field) *StructNode {
	order := make([]string, 0, len(fields))
	byName := make(map[string]Field, len(fields))

	for _, f := range fields {
		if _, exists := byName[f.Name]; exists {
			panic("schema: duplicate field name " + f.Name)
		}

		byName[f.Name] = f
		order = append(order, f.Name)
	}

	return buildStruct(order, byName)
}

func buildStruct(order []string, byName map[string]Field) *StructNode {
	byNumber := make(map[uint16]Field, len(order))

	for _, name := range order {
		f := byName[name]
		// Field numbers are not de-collided across a merge; the later
		// entry in declaration order wins silently. Resolving genuine
		// number collisions is the schema author's responsibility.
		byNumber[f.Number] = f
	}

	return &StructNode{order: order, byName: byName, byNumber: byNumber}
}

// Fields returns the struct's fields in declaration order. The returned
// slice is freshly built and safe for the caller to retain.
func (s *StructNode) Fields() []Field {
	fields := make([]Field, len(s.order))
	for i, name := range s.order {
		fields[i] = s.byName[name]
	}

	return fields
}

// Len reports the number of declared fields.
func (s *StructNode) Len() int { return len(s.order) }

// FieldByName looks up a field by its in-memory name.
func (s *StructNode) FieldByName(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// FieldByNumber looks up a field by its on-wire identifier.
func (s *StructNode) FieldByNumber(number uint16) (Field, bool) {
	f, ok := s.byNumber[number]
	return f, ok
}

// Merge returns a new struct schema whose fields are the union of s and
// other, keyed by name. Where both declare a field with the same name,
// other's field descriptor wins. Field numbers are not de-collided: if s
// and other assign the same number to differently-named fields, the later
// one in the merged declaration order wins in FieldByNumber lookups --
// resolving that collision is the caller's responsibility. Neither input
// is modified.
func (s *StructNode) Merge(other *StructNode) *StructNode {
	order := make([]string, len(s.order))
	copy(order, s.order)

	byName := make(map[string]Field, len(s.byName)+len(other.byName))
	for k, v := range s.byName {
		byName[k] = v
	}

	for _, name := range other.order {
		if _, exists := byName[name]; !exists {
			order = append(order, name)
		}

		byName[name] = other.byName[name]
	}

	return buildStruct(order, byName)
}
