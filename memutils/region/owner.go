package region

import "fmt"

// Pid identifies the simulated process that issued a request
type Pid uint32

// Kind distinguishes free spans, spans owned by a process, and the end-of-space sentinel
type Kind uint8

const (
	KindFree Kind = iota
	KindOccupied
	KindTerminator
)

var kindMapping = map[Kind]string{
	KindFree:       "KindFree",
	KindOccupied:   "KindOccupied",
	KindTerminator: "KindTerminator",
}

func (k Kind) String() string {
	return kindMapping[k]
}

// Owner is the ownership tag carried by every marker in a List. Owners are compared with ==: two
// occupied owners are equal only when both the process and the remaining lifetime match.
type Owner struct {
	Kind     Kind
	Process  Pid
	Lifetime int
}

var (
	// Free is the tag of an unowned span
	Free = Owner{Kind: KindFree}
	// Terminator tags the sentinel marker that closes the address space
	Terminator = Owner{Kind: KindTerminator}
)

// Occupied builds the tag for a span owned by process with the provided remaining lifetime. A
// negative lifetime never decays.
func Occupied(process Pid, lifetime int) Owner {
	return Owner{Kind: KindOccupied, Process: process, Lifetime: lifetime}
}

func (o Owner) IsFree() bool       { return o.Kind == KindFree }
func (o Owner) IsOccupied() bool   { return o.Kind == KindOccupied }
func (o Owner) IsTerminator() bool { return o.Kind == KindTerminator }

// Expired reports whether an occupied span has reached the end of its lifetime and should be
// reclaimed on this tick
func (o Owner) Expired() bool {
	return o.Kind == KindOccupied && o.Lifetime == 0
}

func (o Owner) String() string {
	switch o.Kind {
	case KindFree:
		return "FREE"
	case KindOccupied:
		return fmt.Sprintf("p%d[%ds]", o.Process, o.Lifetime)
	default:
		return "END"
	}
}
