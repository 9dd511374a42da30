package telemetry

import "go.trai.ch/weld/internal/core/ports"

// MsgPlan replaces the module list shown by a renderer.
type MsgPlan struct {
	Modules      []string
	Dependencies map[string][]string
}

// MsgStepStart reports that a module or one of its steps began.
type MsgStepStart struct {
	ports.StepStart
}

// MsgStepOutput carries a chunk of a step's output.
type MsgStepOutput struct {
	ID   string
	Data []byte
}

// MsgStepEnd reports that a module or one of its steps finished.
type MsgStepEnd struct {
	ports.StepEnd
}
