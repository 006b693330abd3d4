package risk

import (
	"context"
	"fmt"
	"time"

	"github.com/bitmark-inc/triage-api/schema"
)

var ErrClassifierTimeout = fmt.Errorf("risk classification timed out")

// Classifier assigns a risk tier to a symptom report. When emergency is true
// the result must be HIGH regardless of the report.
type Classifier interface {
	Classify(ctx context.Context, report schema.SymptomReport, emergency bool) (schema.RiskTier, error)
}

// ClassifierFunc adapts a plain function to the Classifier interface
type ClassifierFunc func(ctx context.Context, report schema.SymptomReport, emergency bool) (schema.RiskTier, error)

func (f ClassifierFunc) Classify(ctx context.Context, report schema.SymptomReport, emergency bool) (schema.RiskTier, error) {
	return f(ctx, report, emergency)
}

type timeoutClassifier struct {
	next    Classifier
	timeout time.Duration
}

// WithTimeout bounds every call of next. A zero timeout returns next unchanged.
func WithTimeout(next Classifier, timeout time.Duration) Classifier {
	if timeout <= 0 {
		return next
	}
	return &timeoutClassifier{next: next, timeout: timeout}
}

type classifyResult struct {
	tier schema.RiskTier
	err  error
}

func (c *timeoutClassifier) Classify(ctx context.Context, report schema.SymptomReport, emergency bool) (schema.RiskTier, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan classifyResult, 1)
	go func() {
		tier, err := c.next.Classify(ctx, report, emergency)
		done <- classifyResult{tier, err}
	}()

	select {
	case r := <-done:
		return r.tier, r.err
	case <-ctx.Done():
		return "", ErrClassifierTimeout
	}
}

// New returns the classifier registered under name
func New(name string, seed int64) (Classifier, error) {
	switch name {
	case "", "rule":
		return NewRuleClassifier(DefaultWeights), nil
	case "random":
		return NewRandomClassifier(seed), nil
	default:
		return nil, fmt.Errorf("unknown classifier %q", name)
	}
}
