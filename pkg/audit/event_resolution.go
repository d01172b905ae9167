package audit

import "fmt"

// ResolutionEvent records a non-fatal identity-resolution diagnostic: the
// authentication succeeded but some part of the request context could not be
// fully populated.
type ResolutionEvent struct {
	TenantDomain   string
	Username       string
	OrganizationID string
	Step           string // "user-id", "organization", "user-store"
	ErrorMessage   string
}

func (e ResolutionEvent) MessageID() string {
	return "resolve"
}

func (e ResolutionEvent) Message() string {
	who := maskName(e.Username)
	if who == "" {
		who = "authenticated user"
	}
	msg := fmt.Sprintf("context resolution degraded for %s at step %s", who, e.Step)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ResolutionEvent) Severity() Severity {
	return SeverityWarning
}

func (e ResolutionEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ResolutionEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user":   maskName(e.Username),
			"tenant": e.TenantDomain,
		},
		SDIDAction: {
			"operation": "resolve",
			"step":      e.Step,
			"result":    "degraded",
		},
	}
	if e.OrganizationID != "" {
		sd[SDIDSubject] = map[string]string{"organization": e.OrganizationID}
	}
	return sd
}

// maskName hides all but the first two characters of a possibly sensitive
// identifier.
func maskName(name string) string {
	if name == "" {
		return ""
	}
	if len(name) <= 2 {
		return "***"
	}
	return name[:2] + "***"
}
