package refpath

// Segment represents a single component of a path, e.g. `name` or `name[index]`.
type Segment struct {
	Name  string
	Index int // -1 indicates no index is present.
}

// NewSegment creates a new path segment without an index.
func NewSegment(name string) Segment {
	return Segment{Name: name, Index: -1}
}

// NewSegmentWithIndex creates a new path segment that includes an index.
func NewSegmentWithIndex(name string, index int) Segment {
	return Segment{Name: name, Index: index}
}

// HasIndex returns true if the path segment has an explicit index.
func (s Segment) HasIndex() bool {
	return s.Index != -1
}

// Path is the structured representation of a dotted reference.
type Path struct {
	Segments []Segment
}

// Head returns the first segment of the path.
func (p *Path) Head() Segment {
	return p.Segments[0]
}

// Tail returns the path without its first segment. The result is nil when
// the path has a single segment.
func (p *Path) Tail() *Path {
	if p == nil || len(p.Segments) < 2 {
		return nil
	}
	return &Path{Segments: p.Segments[1:]}
}

// Len returns the number of segments in the path.
func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Segments)
}
