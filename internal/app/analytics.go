package app

// AdvancedMetrics is the per-turn analytics block the service attaches
// to a reply. Every sub-block is optional; a nil block means "no update
// for these fields", never "reset them".
type AdvancedMetrics struct {
	Traa               *TraaMetrics        `json:"traa,omitempty"`
	FSM                *FSMState           `json:"fsm,omitempty"`
	Entities           *EntityCounts       `json:"entities,omitempty"`
	ScamClassification *ScamClassification `json:"scam_classification,omitempty"`
}

type TraaMetrics struct {
	RiskScore  float64 `json:"risk_score"`
	Confidence float64 `json:"confidence"`
}

type FSMState struct {
	State string `json:"state"`
}

// EntityCounts is the cheap per-turn signal: only a total. The full
// intelligence detail comes from a session fetch when the total is
// nonzero.
type EntityCounts struct {
	Total int `json:"total"`
}

type ScamClassification struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Urgency    string  `json:"urgency"`
}

// Intelligence holds extracted artifacts by category. Lists only ever
// grow within a session; the service returns cumulative results per
// bucket and a merge never regresses a non-empty bucket.
type Intelligence struct {
	PhoneNumbers   []string `json:"phoneNumbers"`
	UPIIDs         []string `json:"upiIds"`
	BankAccounts   []string `json:"bankAccounts"`
	PhishingLinks  []string `json:"phishingLinks"`
	EmailAddresses []string `json:"emailAddresses"`
}

func (i Intelligence) Total() int {
	return len(i.PhoneNumbers) + len(i.UPIIDs) + len(i.BankAccounts) +
		len(i.PhishingLinks) + len(i.EmailAddresses)
}

// StateUnknown is the classification label shown before the service has
// reported one.
const StateUnknown = "unknown"

// AnalyticsSnapshot is the most recent merged view of the service's
// signals. It is replaced wholesale on every merge.
type AnalyticsSnapshot struct {
	RiskScore    float64
	Confidence   float64
	State        string
	ScamType     *ScamClassification
	EntityCount  int
	Intelligence Intelligence
}

func NewAnalyticsSnapshot() AnalyticsSnapshot {
	return AnalyticsSnapshot{State: StateUnknown}
}

// MergeAnalytics folds an optionally present per-turn metrics payload
// into the previous snapshot. Pure: neither input is mutated. Scalar
// fields are replaced when their block is present and kept otherwise.
func MergeAnalytics(prev AnalyticsSnapshot, incoming *AdvancedMetrics) AnalyticsSnapshot {
	if incoming == nil {
		return prev
	}
	next := prev
	if incoming.Traa != nil {
		next.RiskScore = incoming.Traa.RiskScore
		next.Confidence = incoming.Traa.Confidence
	}
	if incoming.FSM != nil && incoming.FSM.State != "" {
		next.State = incoming.FSM.State
	}
	if incoming.Entities != nil {
		next.EntityCount = incoming.Entities.Total
	}
	if incoming.ScamClassification != nil && incoming.ScamClassification.Name != "" {
		sc := *incoming.ScamClassification
		next.ScamType = &sc
	}
	return next
}

// MergeIntelligence applies the keep-or-replace rule per bucket: an
// empty incoming bucket never erases previously known artifacts.
func MergeIntelligence(prev, incoming Intelligence) Intelligence {
	next := prev
	if len(incoming.PhoneNumbers) > 0 {
		next.PhoneNumbers = incoming.PhoneNumbers
	}
	if len(incoming.UPIIDs) > 0 {
		next.UPIIDs = incoming.UPIIDs
	}
	if len(incoming.BankAccounts) > 0 {
		next.BankAccounts = incoming.BankAccounts
	}
	if len(incoming.PhishingLinks) > 0 {
		next.PhishingLinks = incoming.PhishingLinks
	}
	if len(incoming.EmailAddresses) > 0 {
		next.EmailAddresses = incoming.EmailAddresses
	}
	return next
}

// ShouldRefreshIntelligence reports whether a session fetch is worth
// issuing to materialize full intelligence detail. The per-turn reply
// only carries a count; detail costs a second round trip.
func ShouldRefreshIntelligence(s AnalyticsSnapshot) bool {
	return s.EntityCount > 0 || s.Intelligence.Total() > 0
}

// RiskBand is the fixed presentation banding for risk scores.
type RiskBand int

const (
	RiskLow RiskBand = iota
	RiskMedium
	RiskHigh
)

const (
	riskHighThreshold   = 0.65
	riskMediumThreshold = 0.4
)

func BandRisk(score float64) RiskBand {
	switch {
	case score >= riskHighThreshold:
		return RiskHigh
	case score >= riskMediumThreshold:
		return RiskMedium
	}
	return RiskLow
}

func (b RiskBand) String() string {
	switch b {
	case RiskHigh:
		return "high"
	case RiskMedium:
		return "medium"
	}
	return "low"
}
