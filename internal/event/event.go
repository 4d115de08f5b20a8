package event

import "fmt"

// Event is a single change notification.
//
// Source is the topic the event is delivered on. Origin is the entity the
// change happened to; it equals Source unless a namespace forwarded the
// event from one of its members.
type Event struct {
	Kind   Kind
	Source any
	Origin any
	// Name is the entity name the event concerns. For NameChanged it is the new name.
	Name string
	// Previous holds the old name for NameChanged.
	Previous string
	// Detail names the property or input slot for PropertyChanged and InputChanged.
	Detail string
}

// Forwarded reports whether the event was relayed by a namespace.
func (e Event) Forwarded() bool {
	return e.Origin != nil && e.Origin != e.Source
}

func (e Event) String() string {
	switch {
	case e.Kind == NameChanged:
		return fmt.Sprintf("%s %s -> %s", e.Kind, e.Previous, e.Name)
	case e.Detail != "":
		return fmt.Sprintf("%s %s.%s", e.Kind, e.Name, e.Detail)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Name)
}
