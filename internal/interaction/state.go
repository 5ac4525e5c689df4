package interaction

// State is the lifecycle position of one TransferInteraction.
type State int

const (
	StateCreated State = iota
	StateVerified
	StateBound
	StateExecuted
	StateReleased
	StateAborted
)

var stateNames = map[State]string{
	StateCreated:  "created",
	StateVerified: "verified",
	StateBound:    "bound",
	StateExecuted: "executed",
	StateReleased: "released",
	StateAborted:  "aborted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "unknown"
}
