package layout

import "fmt"

// LayoutError reports a record whose derived values are unusable.
type LayoutError struct {
	Seq    int // position after sorting
	Index  int // position in the source document
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf(
		"layout: comment %d (sorted position %d): %s",
		e.Index,
		e.Seq,
		e.Reason,
	)
}

// CapacityError is returned when a feed holds more comments than the
// configured limit.
type CapacityError struct {
	Count int
	Max   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("feed has %d comments, limit is %d", e.Count, e.Max)
}
