package schema

type RiskTier string

const (
	RiskLow    RiskTier = "LOW"
	RiskMedium RiskTier = "MEDIUM"
	RiskHigh   RiskTier = "HIGH"
)

var RiskTiers = []RiskTier{RiskLow, RiskMedium, RiskHigh}

func (r RiskTier) Valid() bool {
	return r == RiskLow || r == RiskMedium || r == RiskHigh
}
