package assessment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/TalentFlow/internal/models"
)

func withRules(rules map[string]models.ConditionalRule) *models.Assessment {
	a := sampleSchema()
	for _, q := range a.Questions() {
		if r, ok := rules[q.ID]; ok {
			r := r
			q.Conditional = &r
		}
	}
	return a
}

func TestCheckAcceptsValidSchema(t *testing.T) {
	a := withRules(map[string]models.ConditionalRule{
		"Q2": {DependsOn: "Q1", Condition: models.Equals, Value: "Yes"},
		"Q4": {DependsOn: "Q2", Condition: models.NotEquals, Value: ""},
	})
	assert.NoError(t, Check(a))
}

func TestCheckRejectsCycles(t *testing.T) {
	a := withRules(map[string]models.ConditionalRule{
		"Q1": {DependsOn: "Q3", Condition: models.Equals, Value: "1"},
		"Q2": {DependsOn: "Q1", Condition: models.Equals, Value: "1"},
		"Q3": {DependsOn: "Q2", Condition: models.Equals, Value: "1"},
	})

	err := Check(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDependencyCycle))

	cycles := FindCycles(a)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"Q1", "Q3", "Q2", "Q1"}, cycles[0])
}

func TestCheckRejectsSelfDependency(t *testing.T) {
	a := withRules(map[string]models.ConditionalRule{
		"Q2": {DependsOn: "Q2", Condition: models.Equals, Value: "x"},
	})
	err := Check(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSelfDependency))
	assert.Empty(t, FindCycles(a))
}

func TestCheckStructuralErrors(t *testing.T) {
	a := sampleSchema()
	a.Sections[1].Questions = append(a.Sections[1].Questions, &models.Question{ID: "Q1", Type: models.ShortText})
	a.Sections[0].Questions[2].Min = f64(10)
	a.Sections[0].Questions[2].Max = f64(1)
	a.Sections[2].Questions = []*models.Question{{ID: "Q9", Type: "dropdown"}}

	var cerr *CheckError
	require.ErrorAs(t, Check(a), &cerr)
	assert.Len(t, cerr.Issues, 3)

	a.JobID = ""
	require.ErrorAs(t, Check(a), &cerr)
	assert.Len(t, cerr.Issues, 4)
}

func TestLintWarnings(t *testing.T) {
	a := withRules(map[string]models.ConditionalRule{
		"Q2": {DependsOn: "deleted", Condition: models.Equals},
		"Q3": {DependsOn: "", Condition: models.Equals},
		"Q4": {DependsOn: "Q1", Condition: "greaterThan"},
	})
	a.Sections[0].Questions[0].Options = nil

	issues := Lint(a)
	require.Len(t, issues, 4)
	for _, is := range issues {
		assert.Equal(t, SeverityWarning, is.Severity, is.Message)
	}
	assert.NoError(t, Check(a))
}

func TestLintNilEntries(t *testing.T) {
	a := &models.Assessment{JobID: "J", Sections: []*models.Section{nil}}
	assert.Error(t, Check(a))
	assert.Error(t, Check(nil))
}
