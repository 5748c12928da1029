package filter

import (
	"fmt"

	"github.com/kailas-cloud/medidex/internal/domain/medicine"
)

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
const MaxConditionsPerGroup = 1024

// Expression is a structured predicate with must/should/must_not boolean semantics:
// every must condition holds, at least one should condition holds (when any are given),
// and no must_not condition holds.
type Expression struct {
	must    []Condition
	should  []Condition
	mustNot []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should, mustNot []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(should) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many should conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(mustNot) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must_not conditions (max %d)", MaxConditionsPerGroup)
	}
	return Expression{must: must, should: should, mustNot: mustNot}, nil
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// Should returns the should conditions.
func (e Expression) Should() []Condition { return e.should }

// MustNot returns the must-not conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0 && len(e.mustNot) == 0
}

// WithMust returns a copy of e with conds appended to the must group.
func (e Expression) WithMust(conds ...Condition) Expression {
	e.must = append(cloneConditions(e.must), conds...)
	return e
}

// WithShould returns a copy of e with conds appended to the should group.
func (e Expression) WithShould(conds ...Condition) Expression {
	e.should = append(cloneConditions(e.should), conds...)
	return e
}

// WithMustNot returns a copy of e with conds appended to the must_not group.
func (e Expression) WithMustNot(conds ...Condition) Expression {
	e.mustNot = append(cloneConditions(e.mustNot), conds...)
	return e
}

// Matches evaluates the expression against a record in process.
func (e Expression) Matches(m *medicine.Medicine) bool {
	for _, c := range e.must {
		if !c.Matches(m) {
			return false
		}
	}
	if len(e.should) > 0 {
		hit := false
		for _, c := range e.should {
			if c.Matches(m) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for _, c := range e.mustNot {
		if c.Matches(m) {
			return false
		}
	}
	return true
}

func cloneConditions(in []Condition) []Condition {
	out := make([]Condition, len(in), len(in)+1)
	copy(out, in)
	return out
}
