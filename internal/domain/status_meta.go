package domain

// Action names a lifecycle operation a client can attempt on a job
type Action string

const (
	ActionAssignVendor        Action = "assignVendor"
	ActionUnassignVendor      Action = "unassignVendor"
	ActionRespondToAssignment Action = "respondToAssignment"
	ActionSendQuote           Action = "sendQuote"
	ActionResendQuote         Action = "resendQuote"
	ActionAcceptQuote         Action = "acceptQuote"
	ActionRejectQuote         Action = "rejectQuote"
	ActionConfirmPayment      Action = "confirmPayment"
	ActionStartWork           Action = "startWork"
	ActionPostProgress        Action = "postProgress"
	ActionCancel              Action = "cancel"
)

// StatusMetadata is the read model behind the status endpoint: one place
// owning the label and the allowed next actions per status, so clients stop
// duplicating the same switch statements.
type StatusMetadata struct {
	Status         JobStatus `json:"status"`
	Label          string    `json:"label"`
	Terminal       bool      `json:"terminal"`
	AllowedActions []Action  `json:"allowedActions"`
}

// statusMetadata is keyed by status; AllowedActions mirrors the lifecycle
// transition table exactly.
var statusMetadata = map[JobStatus]StatusMetadata{
	JobStatusPending: {
		Status:         JobStatusPending,
		Label:          "Pending",
		AllowedActions: []Action{ActionAssignVendor, ActionCancel},
	},
	JobStatusAssigned: {
		Status:         JobStatusAssigned,
		Label:          "Vendor Assigned",
		AllowedActions: []Action{ActionRespondToAssignment, ActionUnassignVendor, ActionCancel},
	},
	JobStatusInDiscussion: {
		Status:         JobStatusInDiscussion,
		Label:          "In Discussion",
		AllowedActions: []Action{ActionSendQuote},
	},
	JobStatusQuoteSent: {
		Status:         JobStatusQuoteSent,
		Label:          "Quote Sent",
		AllowedActions: []Action{ActionResendQuote, ActionAcceptQuote, ActionRejectQuote},
	},
	JobStatusQuoteAccepted: {
		Status:         JobStatusQuoteAccepted,
		Label:          "Quote Accepted",
		AllowedActions: []Action{ActionConfirmPayment},
	},
	JobStatusPaid: {
		Status:         JobStatusPaid,
		Label:          "Paid",
		AllowedActions: []Action{ActionStartWork},
	},
	JobStatusInProgress: {
		Status:         JobStatusInProgress,
		Label:          "In Progress",
		AllowedActions: []Action{ActionPostProgress},
	},
	JobStatusCompleted: {
		Status:         JobStatusCompleted,
		Label:          "Completed",
		Terminal:       true,
		AllowedActions: []Action{},
	},
	JobStatusCancelled: {
		Status:         JobStatusCancelled,
		Label:          "Cancelled",
		Terminal:       true,
		AllowedActions: []Action{},
	},
	JobStatusRejected: {
		Status:         JobStatusRejected,
		Label:          "Rejected",
		Terminal:       true,
		AllowedActions: []Action{},
	},
}

// statusOrder keeps the metadata listing stable for clients
var statusOrder = []JobStatus{
	JobStatusPending,
	JobStatusAssigned,
	JobStatusInDiscussion,
	JobStatusQuoteSent,
	JobStatusQuoteAccepted,
	JobStatusPaid,
	JobStatusInProgress,
	JobStatusCompleted,
	JobStatusCancelled,
	JobStatusRejected,
}

// ActionAllowed reports whether the status lists the action. This is the
// same table the status endpoint serves, so the engine and the read model
// cannot disagree about what a client may do next.
func ActionAllowed(status JobStatus, action Action) bool {
	meta, ok := statusMetadata[status]
	if !ok {
		return false
	}
	for _, a := range meta.AllowedActions {
		if a == action {
			return true
		}
	}
	return false
}

// MetadataFor returns the metadata for a single status
func MetadataFor(status JobStatus) (StatusMetadata, bool) {
	meta, ok := statusMetadata[status]
	return meta, ok
}

// AllStatusMetadata returns metadata for every status in lifecycle order
func AllStatusMetadata() []StatusMetadata {
	out := make([]StatusMetadata, 0, len(statusOrder))
	for _, s := range statusOrder {
		out = append(out, statusMetadata[s])
	}
	return out
}
