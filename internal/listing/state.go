package listing

// State is the view state of a page controller.
type State string

const (
	StateIdle     State = "idle"
	StateLoading  State = "loading"
	StateSuccess  State = "success"
	StateEmpty    State = "empty"
	StateNotFound State = "not_found"
	StateFailed   State = "failed"
)

// Terminal reports whether the state only changes on the next mount or key change.
func (s State) Terminal() bool {
	switch s {
	case StateSuccess, StateEmpty, StateNotFound, StateFailed:
		return true
	default:
		return false
	}
}

func (s State) String() string { return string(s) }
