package interview

// Stage identifies one step of the scripted interview
type Stage string

const (
	StageBasic      Stage = "basic"
	StageRole       Stage = "role"
	StageTechnical  Stage = "technical"
	StageResume     Stage = "resume"
	StageBehavioral Stage = "behavioral"
	StageSalary     Stage = "salary"

	// StageComplete is returned by NextStage after the last stage. It is
	// never stored on a live session.
	StageComplete Stage = "complete"
)

// stageOrder is the fixed interview script
var stageOrder = []Stage{
	StageBasic,
	StageRole,
	StageTechnical,
	StageResume,
	StageBehavioral,
	StageSalary,
}

// Stages returns the interview script in order
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// StageCount is the number of stages in the script
func StageCount() int {
	return len(stageOrder)
}

// Index returns the position of the stage in the script, or -1
func (s Stage) Index() int {
	for i, st := range stageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the scripted stages
func (s Stage) Valid() bool {
	return s.Index() >= 0
}

// IsLast reports whether s is the final scripted stage
func (s Stage) IsLast() bool {
	return s.Index() == len(stageOrder)-1
}

func (s Stage) String() string {
	return string(s)
}

// NextStage returns the stage following s, or StageComplete when s is the
// last stage.
func NextStage(s Stage) (Stage, error) {
	i := s.Index()
	if i < 0 {
		return "", &InvalidStageError{Stage: s}
	}
	if i == len(stageOrder)-1 {
		return StageComplete, nil
	}
	return stageOrder[i+1], nil
}
