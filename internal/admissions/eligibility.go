package admissions

// PassingThreshold is the minimum 12th-grade percentage for admissibility.
// Eligibility policy lives in Evaluate and nowhere else, so the criteria can
// evolve without touching persistence or transport code.
const PassingThreshold = 35.0

// Evaluate decides admissibility from the academic fields and returns the
// verdict together with the initial workflow status. It is pure and is
// applied exactly once, at inquiry creation; re-evaluation is not supported.
func Evaluate(twelfthPercentage *float64) (EligibilityStatus, WorkflowStatus) {
	if twelfthPercentage == nil || *twelfthPercentage < PassingThreshold {
		return NotEligible, StatusRejected
	}
	return Eligible, StatusNew
}
