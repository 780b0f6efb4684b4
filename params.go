package patrol

// Param is a single path variable binding, consisting of the variable name
// and the text it captured.
type Param struct {
	Key   string
	Value string
}

// Params holds the variable bindings produced by a successful match, in
// pattern declaration order. It is a transient per-query value and is never
// shared between queries.
type Params []Param

// Get returns the value bound to the variable by name, or "" if absent.
func (p Params) Get(name string) string {
	for i := range p {
		if p[i].Key == name {
			return p[i].Value
		}
	}
	return ""
}

// Has checks whether a binding exists by name.
func (p Params) Has(name string) bool {
	for i := range p {
		if p[i].Key == name {
			return true
		}
	}

	return false
}

// Map returns the bindings as a name to value map.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p))
	for i := range p {
		m[p[i].Key] = p[i].Value
	}
	return m
}

// Clone make a copy of Params.
func (p Params) Clone() Params {
	cloned := make(Params, len(p))
	copy(cloned, p)
	return cloned
}
