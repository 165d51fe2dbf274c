package model

// PredicateOp enumerates the node kinds of the predicate tree. The tree is a
// storage-neutral intermediate form; the persistence adapter translates it
// into the store's native filter documents.
type PredicateOp string

const (
	OpAnd    PredicateOp = "and"
	OpOr     PredicateOp = "or"
	OpNor    PredicateOp = "nor"
	OpEq     PredicateOp = "eq"
	OpNe     PredicateOp = "ne"
	OpIn     PredicateOp = "in"
	OpNin    PredicateOp = "nin"
	OpGte    PredicateOp = "gte"
	OpLte    PredicateOp = "lte"
	OpExists PredicateOp = "exists"
	OpRegex  PredicateOp = "regex"
	// OpInFold matches a field against a value set case-insensitively.
	OpInFold PredicateOp = "inFold"
)

// Predicate is one node of the compiled filter tree. Leaf nodes carry a
// field and operand; composite nodes carry children.
type Predicate struct {
	Op       PredicateOp   `json:"op"`
	Field    string        `json:"field,omitempty"`
	Value    interface{}   `json:"value,omitempty"`
	Values   []interface{} `json:"values,omitempty"`
	Children []Predicate   `json:"children,omitempty"`
}

// IsZero reports whether the predicate is the empty node.
func (p Predicate) IsZero() bool {
	return p.Op == "" && p.Field == "" && p.Value == nil &&
		len(p.Values) == 0 && len(p.Children) == 0
}

// And conjoins the given predicates, flattening nested conjunctions and
// dropping empty nodes. A single surviving child is returned unwrapped.
func And(children ...Predicate) Predicate {
	var kept []Predicate
	for _, c := range children {
		if c.IsZero() {
			continue
		}
		if c.Op == OpAnd {
			kept = append(kept, c.Children...)
			continue
		}
		kept = append(kept, c)
	}
	switch len(kept) {
	case 0:
		return Predicate{}
	case 1:
		return kept[0]
	default:
		return Predicate{Op: OpAnd, Children: kept}
	}
}

// Or disjoins the given predicates, dropping empty nodes.
func Or(children ...Predicate) Predicate {
	var kept []Predicate
	for _, c := range children {
		if !c.IsZero() {
			kept = append(kept, c)
		}
	}
	switch len(kept) {
	case 0:
		return Predicate{}
	case 1:
		return kept[0]
	default:
		return Predicate{Op: OpOr, Children: kept}
	}
}

// Nor wraps the given predicates in a joint negation. Unlike In/Nin on a
// scalar field, Nor rejects a document when any child matches, which is the
// required semantics for excluding values from array-valued fields.
func Nor(children ...Predicate) Predicate {
	return Predicate{Op: OpNor, Children: children}
}

func Eq(field string, value interface{}) Predicate {
	return Predicate{Op: OpEq, Field: field, Value: value}
}

func Ne(field string, value interface{}) Predicate {
	return Predicate{Op: OpNe, Field: field, Value: value}
}

// In matches documents whose field is any of the given values. An empty
// value set matches nothing, which is the required outcome when every
// requested include value failed to resolve.
func In(field string, values []interface{}) Predicate {
	return Predicate{Op: OpIn, Field: field, Values: values}
}

func Nin(field string, values []interface{}) Predicate {
	return Predicate{Op: OpNin, Field: field, Values: values}
}

func Gte(field string, value interface{}) Predicate {
	return Predicate{Op: OpGte, Field: field, Value: value}
}

func Lte(field string, value interface{}) Predicate {
	return Predicate{Op: OpLte, Field: field, Value: value}
}

func Exists(field string, exists bool) Predicate {
	return Predicate{Op: OpExists, Field: field, Value: exists}
}

// Regex matches the field against a case-insensitive substring pattern. The
// pattern is treated as a literal by callers that quote it beforehand.
func Regex(field, pattern string) Predicate {
	return Predicate{Op: OpRegex, Field: field, Value: pattern}
}

// InFold matches the field against the value set ignoring case.
func InFold(field string, values []string) Predicate {
	vs := make([]interface{}, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return Predicate{Op: OpInFold, Field: field, Values: vs}
}

// Fields returns every field referenced anywhere in the tree, in first-seen
// order. The assembler uses this to decide which join stages a filter needs.
func (p Predicate) Fields() []string {
	var out []string
	seen := make(map[string]struct{})
	var walk func(Predicate)
	walk = func(n Predicate) {
		if n.Field != "" {
			if _, ok := seen[n.Field]; !ok {
				seen[n.Field] = struct{}{}
				out = append(out, n.Field)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(p)
	return out
}
