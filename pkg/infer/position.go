package infer

// Position selects one interpretation of a selection. Reset means the list
// is exhausted and the next cycle starts over at First.
type Position int

const (
	First Position = iota
	Second
	Third
	Fourth
	Fifth
	Reset
)

func (p Position) String() string {
	switch p {
	case First:
		return "first"
	case Second:
		return "second"
	case Third:
		return "third"
	case Fourth:
		return "fourth"
	case Fifth:
		return "fifth"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}
