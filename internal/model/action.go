package model

// Action is the operating mode chosen for one hour.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionRunning   Action = "RUNNING"
	ActionCurtailed Action = "CURTAILED"
)

func ActionFromCurtailed(curtailed bool) Action {
	if curtailed {
		return ActionCurtailed
	}
	return ActionRunning
}
