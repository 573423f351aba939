package audit

// Audit record actions. Each constant corresponds to one ext lifecycle
// hook and becomes the Action field of the audit record.
const (
	ActionChainRegistered   = "chain.registered"
	ActionStageBound        = "chain.stage_bound"
	ActionChainAborted      = "chain.aborted"
	ActionChainCompleted    = "chain.completed"
	ActionChainRemoved      = "chain.removed"
	ActionCompositeExpanded = "composite.expanded"
)

// Severity constants.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// Outcome constants. Aborted attempts are normal outcomes, not failures;
// they carry OutcomeAbandoned.
const (
	OutcomeSuccess   = "success"
	OutcomeAbandoned = "abandoned"
)

// AllActions returns every action this extension can emit.
func AllActions() []string {
	return []string{
		ActionChainRegistered,
		ActionStageBound,
		ActionChainAborted,
		ActionChainCompleted,
		ActionChainRemoved,
		ActionCompositeExpanded,
	}
}
