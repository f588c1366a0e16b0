package workflow

// StepStatus is the state of one pipeline stage.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// Step is one stage of the five-stage diagnostic pipeline.
type Step struct {
	ID          int        `json:"id"`
	Key         string     `json:"key"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Status      StepStatus `json:"status"`
	Details     string     `json:"details,omitempty"`
}

// Stage keys, fixed in this order.
const (
	KeyDataCollection     = "data_collection"
	KeyFaultAnalysis      = "fault_analysis"
	KeySolutionGeneration = "solution_generation"
	KeyCommandDispatch    = "command_dispatch"
	KeyResultVerification = "result_verification"
)

// initialSteps builds a fresh pipeline with every stage pending. Each
// session gets its own instance so concurrent analyses never share state.
func initialSteps() []Step {
	return []Step{
		{
			ID:          1,
			Key:         KeyDataCollection,
			Title:       "Data collection",
			Description: "Collecting equipment fault data and history",
			Icon:        "fa-database",
			Status:      StepPending,
		},
		{
			ID:          2,
			Key:         KeyFaultAnalysis,
			Title:       "Fault analysis",
			Description: "Analyzing fault signatures and probable causes",
			Icon:        "fa-search",
			Status:      StepPending,
		},
		{
			ID:          3,
			Key:         KeySolutionGeneration,
			Title:       "Solution generation",
			Description: "Generating a remediation plan from history and the knowledge base",
			Icon:        "fa-lightbulb",
			Status:      StepPending,
		},
		{
			ID:          4,
			Key:         KeyCommandDispatch,
			Title:       "Command dispatch",
			Description: "Sending remediation commands to the equipment",
			Icon:        "fa-send",
			Status:      StepPending,
		},
		{
			ID:          5,
			Key:         KeyResultVerification,
			Title:       "Result verification",
			Description: "Verifying the fault is resolved",
			Icon:        "fa-check-circle",
			Status:      StepPending,
		},
	}
}
