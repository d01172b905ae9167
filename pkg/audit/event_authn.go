package audit

import "fmt"

// AuthenticateEvent records the verdict of one authentication attempt.
type AuthenticateEvent struct {
	TenantDomain string
	Username     string
	StrategyName string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	who := e.Username
	if who == "" {
		who = "unknown principal"
	}
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated on %s with strategy %s", who, e.TenantDomain, e.StrategyName)
	}
	msg := fmt.Sprintf("%s failed to authenticate on %s with strategy %s", who, e.TenantDomain, e.StrategyName)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"strategy": e.StrategyName,
			"user":     e.Username,
			"tenant":   e.TenantDomain,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	return sd
}
