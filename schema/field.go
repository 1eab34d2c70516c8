package schema

// Field is a field descriptor: the stable wire identity (Number) paired
// with an in-memory-only Name, a Type, and whether the field may be absent
// from encoder input / decoder output.
type Field struct {
	Number   uint16
	Name     string
	Type     Node
	Optional bool
}

// NewField returns a required field descriptor. Use AsOptional to mark it
// optional.
func NewField(number uint16, name string, t Node) Field {
	return Field{Number: number, Name: name, Type: t}
}

// AsOptional returns a copy of f marked optional. It does not mutate f.
func (f Field) AsOptional() Field {
	f.Optional = true
	return f
}
