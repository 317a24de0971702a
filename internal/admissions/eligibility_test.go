package admissions

import "testing"

func TestEvaluate(t *testing.T) {
	pct := func(v float64) *float64 { return &v }

	cases := []struct {
		name       string
		percentage *float64
		wantElig   EligibilityStatus
		wantStatus WorkflowStatus
	}{
		{"absent percentage", nil, NotEligible, StatusRejected},
		{"zero percentage", pct(0), NotEligible, StatusRejected},
		{"just below threshold", pct(34), NotEligible, StatusRejected},
		{"at threshold", pct(35), Eligible, StatusNew},
		{"well above threshold", pct(92.5), Eligible, StatusNew},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			elig, status := Evaluate(tc.percentage)
			if elig != tc.wantElig || status != tc.wantStatus {
				t.Fatalf("Evaluate(%v) = (%s, %s), want (%s, %s)",
					tc.percentage, elig, status, tc.wantElig, tc.wantStatus)
			}
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	v := 34.0
	for i := 0; i < 100; i++ {
		elig, status := Evaluate(&v)
		if elig != NotEligible || status != StatusRejected {
			t.Fatalf("iteration %d: got (%s, %s)", i, elig, status)
		}
	}
}
