package model

// StepState is the visual state of one progress step.
type StepState string

const (
	StepPending   StepState = "pending"
	StepCurrent   StepState = "current"
	StepCompleted StepState = "completed"
	StepRejected  StepState = "rejected"
)

// ProgressStep is one entry in the 5-step review projection shown to centers.
// Title holds an i18n message ID; the HTTP layer localizes it per request.
type ProgressStep struct {
	ID    int       `json:"id"`
	Title string    `json:"title"`
	State StepState `json:"state"`
}

// stepOrder maps each in-flight pipeline status to its 1-based step position.
var stepOrder = map[ApplicationStatus]int{
	StatusSubmitted:       1,
	StatusUnderReview:     2,
	StatusFieldVisit:      3,
	StatusUnderEvaluation: 4,
}

// progressTitles are the i18n message IDs for the five steps, in order.
var progressTitles = [...]string{
	"progress.submission",
	"progress.initial_review",
	"progress.field_visit",
	"progress.evaluation",
	"progress.decision",
}

// rejectedFromStep is where a rejected application is shown to have fallen
// out of the pipeline. Rejection is a decision-stage outcome in the portal
// UI: steps 1-3 stay completed, evaluation and decision render rejected.
const rejectedFromStep = 4

// ProgressSteps derives the 5-step progress projection from the current
// status. It is a pure function of the status and is recomputed on every
// call; nothing here is persisted.
func ProgressSteps(status ApplicationStatus) []ProgressStep {
	steps := make([]ProgressStep, 0, len(progressTitles))
	for i, title := range progressTitles {
		n := i + 1
		step := ProgressStep{ID: n, Title: title, State: stepState(status, n)}
		steps = append(steps, step)
	}
	return steps
}

func stepState(status ApplicationStatus, n int) StepState {
	switch status {
	case StatusAccepted:
		return StepCompleted
	case StatusRejected:
		if n < rejectedFromStep {
			return StepCompleted
		}
		return StepRejected
	default:
		pos, ok := stepOrder[status]
		if !ok {
			pos = 1
		}
		switch {
		case n < pos:
			return StepCompleted
		case n == pos:
			return StepCurrent
		default:
			return StepPending
		}
	}
}
