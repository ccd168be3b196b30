package interp

// signal is the four-valued control-flow result spec.md §9 prescribes in
// place of host-level non-local exit: Normal, Returning, Breaking,
// Continuing. A while body consumes Breaking/Continuing; every other
// evaluator propagates Returning upward until the call frame that invoked
// the function consumes it.
type signal int

const (
	sigNormal signal = iota
	sigReturning
	sigBreaking
	sigContinuing
)

// flow is the result of evaluating one statement or block: which of the
// four signals fired, and — for sigReturning — the value being returned.
type flow struct {
	sig   signal
	value Value
}

var normalFlow = flow{sig: sigNormal}
var breakingFlow = flow{sig: sigBreaking}
var continuingFlow = flow{sig: sigContinuing}

func returningFlow(v Value) flow { return flow{sig: sigReturning, value: v} }
