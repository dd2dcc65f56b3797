// Package tags models Shopify product tags as typed namespace:value pairs.
//
// The wire format is a comma-separated string (REST) or a string array (GraphQL).
// Both are normalized into a Set at the API boundary; nothing downstream sees
// the wire string.
package tags

import (
	"sort"
	"strings"
)

// Namespace is the part of a tag before the first colon
type Namespace string

const (
	NamespaceFamily   Namespace = "family"
	NamespacePillar   Namespace = "pillar"
	NamespaceUse      Namespace = "use"
	NamespaceMaterial Namespace = "material"
	NamespaceBrand    Namespace = "brand"
	NamespaceStyle    Namespace = "style"

	// Unnamespaced is the bucket for legacy tags without a colon
	Unnamespaced Namespace = "_unnamespaced"
)

// Known lists the taxonomy namespaces in a fixed order
var Known = []Namespace{
	NamespaceFamily,
	NamespacePillar,
	NamespaceUse,
	NamespaceMaterial,
	NamespaceBrand,
	NamespaceStyle,
}

// Tag is a single tag. An unnamespaced tag has an empty Namespace.
type Tag struct {
	Namespace Namespace
	Value     string
}

// New builds a namespaced tag
func New(ns Namespace, value string) Tag {
	return Tag{Namespace: ns, Value: value}
}

// ParseTag splits a raw tag at its first colon. The namespace is lower-cased;
// the value keeps everything after the first colon, including further colons.
func ParseTag(raw string) Tag {
	raw = strings.TrimSpace(raw)
	ns, value, found := strings.Cut(raw, ":")
	if !found {
		return Tag{Value: raw}
	}
	return Tag{
		Namespace: Namespace(strings.ToLower(strings.TrimSpace(ns))),
		Value:     strings.TrimSpace(value),
	}
}

// String renders the wire form
func (t Tag) String() string {
	if t.Namespace == "" {
		return t.Value
	}
	return string(t.Namespace) + ":" + t.Value
}

// IsNamespaced reports whether the tag carries a namespace
func (t Tag) IsNamespaced() bool {
	return t.Namespace != ""
}

// SplitList splits a comma-joined tag string, dropping empty entries
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList renders tags in the REST comma-joined form
func JoinList(tags []string) string {
	return strings.Join(tags, ", ")
}

// Set is an unordered set of tags. Each member remembers the spelling it was
// added with, so writing a set back never rewrites tags nobody touched.
type Set map[Tag]string

// NewSet builds a set from raw wire strings
func NewSet(raw ...string) Set {
	s := make(Set, len(raw))
	s.Add(raw...)
	return s
}

// Has reports membership of a raw tag
func (s Set) Has(raw string) bool {
	_, ok := s[ParseTag(raw)]
	return ok
}

// Add inserts raw tags. A tag already present keeps its existing spelling.
func (s Set) Add(raw ...string) {
	for _, r := range raw {
		r = strings.TrimSpace(r)
		t := ParseTag(r)
		if t.Value == "" && t.Namespace == "" {
			continue
		}
		if _, ok := s[t]; !ok {
			s[t] = r
		}
	}
}

// Remove deletes raw tags
func (s Set) Remove(raw ...string) {
	for _, r := range raw {
		delete(s, ParseTag(r))
	}
}

// Clone copies the set
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for t, r := range s {
		out[t] = r
	}
	return out
}

// Equal reports whether both sets hold the same tags
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for t := range s {
		if _, ok := other[t]; !ok {
			return false
		}
	}
	return true
}

// Strings returns the tags as they were spelled when added, sorted so output is
// deterministic
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Values returns the sorted values of one namespace
func (s Set) Values(ns Namespace) []string {
	var out []string
	for t := range s {
		if t.Namespace == ns {
			out = append(out, t.Value)
		}
	}
	sort.Strings(out)
	return out
}
