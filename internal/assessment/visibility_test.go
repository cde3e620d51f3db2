package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soaringjerry/TalentFlow/internal/models"
)

func ruleQuestion(dependsOn string, cond models.Condition, value string) *models.Question {
	return &models.Question{
		ID:          "senior-exp",
		Type:        models.LongText,
		Conditional: &models.ConditionalRule{DependsOn: dependsOn, Condition: cond, Value: value},
	}
}

func TestIsVisibleWithoutRule(t *testing.T) {
	assert.True(t, IsVisible(&models.Question{ID: "Q"}, nil))
	assert.False(t, IsVisible(nil, nil))
}

func TestIsVisibleEquals(t *testing.T) {
	q := ruleQuestion("exp-years", models.Equals, "6+ years")

	assert.False(t, IsVisible(q, Answers{}))
	assert.False(t, IsVisible(q, Answers{"exp-years": {}}))
	assert.False(t, IsVisible(q, Answers{"exp-years": models.TextValue("2-3 years")}))
	assert.True(t, IsVisible(q, Answers{"exp-years": models.TextValue("6+ years")}))
}

func TestIsVisibleComparesNumbersAsEntered(t *testing.T) {
	q := ruleQuestion("n", models.Equals, "5")
	assert.True(t, IsVisible(q, Answers{"n": models.NumberValue("5")}))
	assert.True(t, IsVisible(q, Answers{"n": models.FloatValue(5)}))
	assert.False(t, IsVisible(q, Answers{"n": models.NumberValue("5.0")}))
	assert.False(t, IsVisible(q, Answers{"n": models.NumberValue("6")}))

	for _, raw := range []string{"05", "5.0", "1e3"} {
		rule := ruleQuestion("n", models.Equals, raw)
		assert.True(t, IsVisible(rule, Answers{"n": models.NumberValue(raw)}), raw)
		assert.False(t, IsVisible(ruleQuestion("n", models.NotEquals, raw), Answers{"n": models.NumberValue(raw)}), raw)
	}

	joined := ruleQuestion("m", models.Equals, "a,b")
	assert.True(t, IsVisible(joined, Answers{"m": models.ListValue("a", "b")}))
}

func TestIsVisibleNotEquals(t *testing.T) {
	q := ruleQuestion("team-lead", models.NotEquals, "No")

	assert.False(t, IsVisible(q, Answers{}), "absent prerequisite hides even for notEquals")
	assert.False(t, IsVisible(q, Answers{"team-lead": models.TextValue("No")}))
	assert.True(t, IsVisible(q, Answers{"team-lead": models.TextValue("Yes")}))
}

func TestIsVisibleContainsOnlyMatchesLists(t *testing.T) {
	q := ruleQuestion("stack", models.Contains, "Go")

	assert.False(t, IsVisible(q, Answers{"stack": models.TextValue("Go")}))
	assert.False(t, IsVisible(q, Answers{"stack": models.NumberValue("1")}))
	assert.False(t, IsVisible(q, Answers{"stack": models.ListValue("Python", "Java")}))
	assert.False(t, IsVisible(q, Answers{"stack": models.ListValue()}))
	assert.True(t, IsVisible(q, Answers{"stack": models.ListValue("Python", "Go")}))
}

func TestIsVisibleUnknownConditionIsPermissive(t *testing.T) {
	q := ruleQuestion("x", models.Condition("greaterThan"), "3")
	assert.True(t, IsVisible(q, Answers{"x": models.TextValue("1")}))
	assert.False(t, IsVisible(q, Answers{}), "missing prerequisite still hides")
}

func chainSchema() *models.Assessment {
	return &models.Assessment{
		JobID: "J1",
		Sections: []*models.Section{{ID: "S1", Questions: []*models.Question{
			{ID: "A", Type: models.SingleChoice, Options: []string{"Yes", "No"}},
			{ID: "B", Type: models.SingleChoice, Options: []string{"Yes", "No"},
				Conditional: &models.ConditionalRule{DependsOn: "A", Condition: models.Equals, Value: "Yes"}},
			{ID: "C", Type: models.ShortText,
				Conditional: &models.ConditionalRule{DependsOn: "B", Condition: models.Equals, Value: "Yes"}},
			{ID: "D", Type: models.ShortText,
				Conditional: &models.ConditionalRule{DependsOn: "deleted", Condition: models.Equals, Value: "x"}},
		}}},
	}
}

func TestLiveFollowsChains(t *testing.T) {
	a := chainSchema()

	live := Live(a, Answers{"A": models.TextValue("Yes"), "B": models.TextValue("Yes")})
	assert.Equal(t, map[string]bool{"A": true, "B": true, "C": true, "D": false}, live)

	// B keeps its stale answer after A flips, but C must follow B out.
	live = Live(a, Answers{"A": models.TextValue("No"), "B": models.TextValue("Yes")})
	assert.True(t, live["A"])
	assert.False(t, live["B"])
	assert.False(t, live["C"])
}

func TestLiveCyclesFailClosed(t *testing.T) {
	a := &models.Assessment{Sections: []*models.Section{{ID: "S", Questions: []*models.Question{
		{ID: "X", Conditional: &models.ConditionalRule{DependsOn: "Y", Condition: models.Equals, Value: "1"}},
		{ID: "Y", Conditional: &models.ConditionalRule{DependsOn: "X", Condition: models.Equals, Value: "1"}},
		{ID: "Z"},
	}}}}

	live := Live(a, Answers{"X": models.TextValue("1"), "Y": models.TextValue("1")})
	assert.False(t, live["X"])
	assert.False(t, live["Y"])
	assert.True(t, live["Z"])
}

func TestLiveAnswersDropsHiddenAndUnknown(t *testing.T) {
	a := chainSchema()
	answers := Answers{
		"A":     models.TextValue("No"),
		"B":     models.TextValue("Yes"),
		"C":     models.TextValue("stale"),
		"ghost": models.TextValue("?"),
	}

	got := LiveAnswers(a, answers)
	assert.Equal(t, Answers{"A": models.TextValue("No")}, got)
	assert.Len(t, answers, 4, "the in-progress map is left intact")
}
