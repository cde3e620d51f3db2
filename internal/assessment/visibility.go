package assessment

import "github.com/soaringjerry/TalentFlow/internal/models"

// Answers maps question ids to captured values. Hiding a question never
// removes its entry.
type Answers map[string]models.Value

// Clone deep-copies the answer map.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v.Clone()
	}
	return out
}

// IsVisible evaluates a single question's rule against the current answers.
// A question whose prerequisite has no answer is hidden, even when the
// prerequisite itself is optional. Unknown conditions are permissive.
func IsVisible(q *models.Question, answers Answers) bool {
	if q == nil {
		return false
	}
	rule := q.Conditional
	if rule == nil {
		return true
	}
	dep, ok := answers[rule.DependsOn]
	if !ok || !dep.Present() {
		return false
	}
	switch rule.Condition {
	case models.Equals:
		return dep.String() == rule.Value
	case models.NotEquals:
		return dep.String() != rule.Value
	case models.Contains:
		return dep.Has(rule.Value)
	default:
		return true
	}
}

// Live resolves visibility for every question in the schema. A question is
// live when its own rule holds and its prerequisite is live too, so a
// stale answer on a hidden question cannot keep its dependents open.
// Dangling prerequisites and cycles resolve to hidden.
func Live(a *models.Assessment, answers Answers) map[string]bool {
	questions := map[string]*models.Question{}
	for _, q := range a.Questions() {
		questions[q.ID] = q
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(questions))
	live := make(map[string]bool, len(questions))

	var resolve func(id string) bool
	resolve = func(id string) bool {
		q, ok := questions[id]
		if !ok {
			return false
		}
		switch state[id] {
		case done:
			return live[id]
		case visiting:
			return false
		}
		state[id] = visiting
		ok = IsVisible(q, answers)
		if ok && q.Conditional != nil {
			ok = resolve(q.Conditional.DependsOn)
		}
		state[id] = done
		live[id] = ok
		return ok
	}

	for id := range questions {
		resolve(id)
	}
	return live
}

// LiveAnswers keeps only the answers of live questions. Answers for ids
// that are not in the schema are dropped as well.
func LiveAnswers(a *models.Assessment, answers Answers) Answers {
	live := Live(a, answers)
	out := Answers{}
	for id, v := range answers {
		if live[id] && v.Present() {
			out[id] = v.Clone()
		}
	}
	return out
}
