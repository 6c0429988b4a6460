package convert

// State is a stage of a conversion run. Runs move strictly forward:
// Configure, LoadModel, Build, Export, Done.
type State int

const (
	StateIdle State = iota
	StateConfigure
	StateLoadModel
	StateBuild
	StateExport
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfigure:
		return "configure"
	case StateLoadModel:
		return "load_model"
	case StateBuild:
		return "build"
	case StateExport:
		return "export"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
