package domain

// InsumoStatus is the workflow stage of an insumo. The string values are
// the persistence keys; display labels live in StatusLabels.
type InsumoStatus string

const (
	StatusNotStarted          InsumoStatus = "not_started"
	StatusInProgress          InsumoStatus = "in_progress"
	StatusSubmitted           InsumoStatus = "submitted"
	StatusUnderReview         InsumoStatus = "under_review"
	StatusAdjustmentRequested InsumoStatus = "adjustment_requested"
	StatusApproved            InsumoStatus = "approved"
)

// AllStatuses lists the workflow stages in board order.
var AllStatuses = []InsumoStatus{
	StatusNotStarted,
	StatusInProgress,
	StatusSubmitted,
	StatusUnderReview,
	StatusAdjustmentRequested,
	StatusApproved,
}

// StatusLabels maps persistence keys to display labels so the wire value
// and the rendered column title stay decoupled.
var StatusLabels = map[InsumoStatus]string{
	StatusNotStarted:          "Not Started",
	StatusInProgress:          "In Progress",
	StatusSubmitted:           "Submitted",
	StatusUnderReview:         "Under Review",
	StatusAdjustmentRequested: "Adjustment Requested",
	StatusApproved:            "Approved",
}

// ValidStatus reports whether s is one of the six workflow stages.
func ValidStatus(s InsumoStatus) bool {
	_, ok := StatusLabels[s]
	return ok
}

// ReviewStatuses are the stages past initial authoring. Moving an insumo
// into any of them requires non-empty content.
var ReviewStatuses = map[InsumoStatus]bool{
	StatusSubmitted:           true,
	StatusUnderReview:         true,
	StatusAdjustmentRequested: true,
	StatusApproved:            true,
}

type Role string

const (
	RoleSupervisor  Role = "supervisor"
	RoleMidAnalyst  Role = "mid_analyst"
	RoleAnalyst     Role = "analyst"
	RoleCoordinator Role = "coordinator"
	RoleManager     Role = "manager"
)

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[string]bool{
	"supervisor": true, "mid_analyst": true, "analyst": true,
	"coordinator": true, "manager": true,
}

type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentPDF   AttachmentKind = "pdf"
	AttachmentOther AttachmentKind = "other"
)

// ProductionPhase is the month-long production cycle stage of an edition.
type ProductionPhase string

const (
	PhaseKickoff    ProductionPhase = "kickoff"
	PhaseTextInputs ProductionPhase = "text_inputs"
	PhaseFinalData  ProductionPhase = "final_data"
	PhaseBuild      ProductionPhase = "build"
	PhaseValidation ProductionPhase = "validation"
	PhaseDone       ProductionPhase = "done"
)

// AllPhases lists the production phases in cycle order.
var AllPhases = []ProductionPhase{
	PhaseKickoff,
	PhaseTextInputs,
	PhaseFinalData,
	PhaseBuild,
	PhaseValidation,
	PhaseDone,
}
