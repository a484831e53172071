package deobfuscate

import (
	"strconv"
)

type Kind string

const (
	// KindAbsent marks a structure that was not found; its pass was skipped.
	KindAbsent Kind = "absent"
	// KindUnresolved marks a decrypt call whose index is not a literal.
	KindUnresolved Kind = "unresolved"
	// KindOutOfRange marks a resolved index outside the pool.
	KindOutOfRange Kind = "out_of_range"
	// KindDecode marks a pool entry that failed to decode with the call's key.
	KindDecode Kind = "decode"
	// KindCycle marks a call whose wrapper chain loops.
	KindCycle Kind = "cycle"
	// KindIncomplete marks rules with fields no heuristic could fill.
	KindIncomplete Kind = "incomplete"
)

// Diagnostic describes one thing the pipeline skipped. Offset is the byte
// offset in the stage's input, or -1 when the diagnostic is not tied to a
// position.
type Diagnostic struct {
	Stage  string `json:"stage"`
	Kind   Kind   `json:"kind"`
	Msg    string `json:"msg"`
	Offset int    `json:"offset"`
}

func (d Diagnostic) String() string {
	s := d.Stage + " [" + string(d.Kind) + "] " + d.Msg
	if d.Offset >= 0 {
		s += " at offset " + strconv.Itoa(d.Offset)
	}
	return s
}

// Result pairs a value with the diagnostics collected while producing it.
type Result[T any] struct {
	Value T
	Diags []Diagnostic
}

func (r *Result[T]) add(stage string, kind Kind, msg string, offset int) {
	r.Diags = append(r.Diags, Diagnostic{
		Stage:  stage,
		Kind:   kind,
		Msg:    msg,
		Offset: offset,
	})
}

// Count returns the number of diagnostics of the given kind.
func (r *Result[T]) Count(kind Kind) int {
	n := 0
	for _, d := range r.Diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
