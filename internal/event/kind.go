package event

import (
	"fmt"
	"strings"
)

// Kind identifies what changed.
type Kind int

const (
	// ElementAdded is raised by a namespace when a member is registered.
	ElementAdded Kind = iota + 1
	// ElementDeleted is raised by a namespace after a member was removed.
	ElementDeleted
	// ElementDeleteRequested is raised by an entity asking its parent to remove it.
	ElementDeleteRequested
	NameChanged
	PropertyChanged
	IconChanged
	ThumbnailChanged
	InputChanged
	// StructureChanged is raised by a namespace after a fully successful update.
	StructureChanged
	// Updated is raised by an object after its method ran successfully.
	Updated
)

var kindNames = map[Kind]string{
	ElementAdded:           "element_added",
	ElementDeleted:         "element_deleted",
	ElementDeleteRequested: "element_delete_requested",
	NameChanged:            "name_changed",
	PropertyChanged:        "property_changed",
	IconChanged:            "icon_changed",
	ThumbnailChanged:       "thumbnail_changed",
	InputChanged:           "input_changed",
	StructureChanged:       "structure_changed",
	Updated:                "updated",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames))
	for k := ElementAdded; k <= Updated; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind maps a kind name such as "name_changed" back to its Kind.
// Matching ignores case and accepts dashes in place of underscores.
func ParseKind(s string) (Kind, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for k, name := range kindNames {
		if name == norm {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// Set is a set of kinds. A nil or empty Set matches every kind.
type Set map[Kind]struct{}

// NewSet builds a Set from the given kinds.
func NewSet(kinds ...Kind) Set {
	s := make(Set, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is in the set.
func (s Set) Has(k Kind) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[k]
	return ok
}

// ParseSet builds a Set from kind names. No names yields the empty set.
func ParseSet(names []string) (Set, error) {
	s := make(Set, len(names))
	for _, n := range names {
		k, err := ParseKind(n)
		if err != nil {
			return nil, err
		}
		s[k] = struct{}{}
	}
	return s, nil
}

func (s Set) String() string {
	if len(s) == 0 {
		return "all"
	}
	var names []string
	for _, k := range Kinds() {
		if _, ok := s[k]; ok {
			names = append(names, k.String())
		}
	}
	return strings.Join(names, ",")
}
