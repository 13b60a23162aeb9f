package console

type State int

const (
	AwaitingInput State = iota
	InFlight
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case InFlight:
		return "in_flight"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}
