package metrics

import "time"

// Sink records board metrics. Methods are fire-and-forget and must not block.
type Sink interface {
	ListingsLoaded(duration time.Duration, count int, err error)
	CacheLookup(hit bool)
	InteractionCompleted(action string, outcome string)
	EventPublished(eventType string, err error)
}

// Interaction actions.
const (
	ActionSave   = "save"
	ActionUnsave = "unsave"
	ActionApply  = "apply"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Interaction outcomes. Rejected means a guard refused the action before any
// storage call was made.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)
