package risk

import (
	"context"
	"math/rand"
	"sync"

	"github.com/bitmark-inc/triage-api/schema"
)

// RandomClassifier picks a tier uniformly. It is a placeholder for a real
// model and carries no clinical meaning.
type RandomClassifier struct {
	sync.Mutex
	rand *rand.Rand
}

func NewRandomClassifier(seed int64) *RandomClassifier {
	return &RandomClassifier{
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (c *RandomClassifier) Classify(_ context.Context, _ schema.SymptomReport, emergency bool) (schema.RiskTier, error) {
	if emergency {
		return schema.RiskHigh, nil
	}

	c.Lock()
	v := c.rand.Float64()
	c.Unlock()

	switch {
	case v < 0.33:
		return schema.RiskLow, nil
	case v < 0.66:
		return schema.RiskMedium, nil
	default:
		return schema.RiskHigh, nil
	}
}
