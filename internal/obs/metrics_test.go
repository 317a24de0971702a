package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                               "/",
		"/metrics":                       "/metrics",
		"/api/inquiries":                 "/api/inquiries",
		"/api/inquiries/abc":             "/api/inquiries/:id",
		"/api/inquiries/abc/status":      "/api/inquiries/:id/status",
		"/api/inquiries/abc/fees":        "/api/inquiries/:id/fees",
		"/api/inquiries/abc/record-fee":  "/api/inquiries/:id/record-fee",
		"/api/inquiries/abc/extra":       "/api/inquiries/abc/extra",
		"/api/inquiries?limit=10":        "/api/inquiries",
		"/api/admins/42/status":          "/api/admins/:id/status",
		"/api/colleges/all":              "/api/colleges/all",
		"/api/colleges/42/details":       "/api/colleges/:id/details",
		"/api/activity-logs/user/ADM001": "/api/activity-logs/user/:id",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
