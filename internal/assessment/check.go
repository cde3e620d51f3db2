package assessment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/soaringjerry/TalentFlow/internal/models"
)

var ErrDependencyCycle = errors.New("conditional dependency cycle")

var schemaValidate *validator.Validate

func init() {
	schemaValidate = validator.New()
}

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding from Lint.
type Issue struct {
	Severity   Severity `json:"severity"`
	SectionID  string   `json:"sectionId,omitempty"`
	QuestionID string   `json:"questionId,omitempty"`
	Message    string   `json:"message"`
	err        error
}

// CheckError reports the blocking issues found when committing a schema.
type CheckError struct {
	Issues []Issue
}

func (e *CheckError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		msgs = append(msgs, is.Message)
	}
	return "invalid assessment: " + strings.Join(msgs, "; ")
}

func (e *CheckError) Is(target error) bool {
	for _, is := range e.Issues {
		if is.err != nil && errors.Is(is.err, target) {
			return true
		}
	}
	return false
}

// Check returns a *CheckError when Lint finds anything of error severity.
func Check(a *models.Assessment) error {
	var blocking []Issue
	for _, is := range Lint(a) {
		if is.Severity == SeverityError {
			blocking = append(blocking, is)
		}
	}
	if len(blocking) == 0 {
		return nil
	}
	return &CheckError{Issues: blocking}
}

// Lint inspects a schema for structural problems. Self-dependencies,
// cycles, duplicate ids, unknown types and inverted bounds are errors;
// dangling or empty prerequisites and unknown conditions only warn since
// they resolve to a defined visibility at runtime.
func Lint(a *models.Assessment) []Issue {
	if a == nil {
		return []Issue{{Severity: SeverityError, Message: "assessment is nil"}}
	}
	var issues []Issue
	add := func(sev Severity, secID, qID string, err error, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, SectionID: secID, QuestionID: qID, Message: fmt.Sprintf(format, args...), err: err})
	}

	for i, sec := range a.Sections {
		if sec == nil {
			add(SeverityError, "", "", nil, "section %d is empty", i)
			continue
		}
		for j, q := range sec.Questions {
			if q == nil {
				add(SeverityError, sec.ID, "", nil, "section %q question %d is empty", sec.ID, j)
			}
		}
	}
	if len(issues) > 0 {
		return issues
	}

	if err := schemaValidate.Struct(a); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				add(SeverityError, "", "", nil, "%s failed %q", fe.Namespace(), fe.Tag())
			}
		} else {
			add(SeverityError, "", "", err, "%v", err)
		}
	}

	sectionIDs := map[string]bool{}
	questionIDs := map[string]bool{}
	for _, sec := range a.Sections {
		if sectionIDs[sec.ID] {
			add(SeverityError, sec.ID, "", nil, "duplicate section id %q", sec.ID)
		}
		sectionIDs[sec.ID] = true
		for _, q := range sec.Questions {
			if questionIDs[q.ID] {
				add(SeverityError, sec.ID, q.ID, nil, "duplicate question id %q", q.ID)
			}
			questionIDs[q.ID] = true
		}
	}

	for _, sec := range a.Sections {
		for _, q := range sec.Questions {
			if q.Min != nil && q.Max != nil && *q.Min > *q.Max {
				add(SeverityError, sec.ID, q.ID, nil, "question %q has min greater than max", q.ID)
			}
			if q.Type.IsChoice() && len(q.Options) == 0 {
				add(SeverityWarning, sec.ID, q.ID, nil, "question %q has no options", q.ID)
			}
			rule := q.Conditional
			if rule == nil {
				continue
			}
			switch {
			case rule.DependsOn == q.ID:
				add(SeverityError, sec.ID, q.ID, ErrSelfDependency, "question %q depends on itself", q.ID)
			case strings.TrimSpace(rule.DependsOn) == "":
				add(SeverityWarning, sec.ID, q.ID, nil, "question %q has a rule without a prerequisite and will stay hidden", q.ID)
			case !questionIDs[rule.DependsOn]:
				add(SeverityWarning, sec.ID, q.ID, nil, "question %q depends on missing question %q and will stay hidden", q.ID, rule.DependsOn)
			}
			switch rule.Condition {
			case models.Equals, models.NotEquals, models.Contains:
			default:
				add(SeverityWarning, sec.ID, q.ID, nil, "question %q uses unknown condition %q and will always show", q.ID, rule.Condition)
			}
		}
	}

	for _, cycle := range FindCycles(a) {
		add(SeverityError, "", cycle[0], ErrDependencyCycle, "dependency cycle %s", strings.Join(cycle, " -> "))
	}
	return issues
}

// FindCycles returns every dependency cycle of two or more questions, each
// as the list of ids walked with the first id repeated at the end.
// Self-dependencies are reported by Lint directly.
func FindCycles(a *models.Assessment) [][]string {
	deps := map[string]string{}
	var order []string
	for _, q := range a.Questions() {
		order = append(order, q.ID)
		if q.Conditional != nil && q.Conditional.DependsOn != "" && q.Conditional.DependsOn != q.ID {
			deps[q.ID] = q.Conditional.DependsOn
		}
	}

	// Each question has at most one outgoing edge, so walking from every
	// unvisited node finds each cycle exactly once.
	const (
		unvisited = iota
		onPath
		finished
	)
	state := map[string]int{}
	var cycles [][]string
	for _, start := range order {
		if state[start] != unvisited {
			continue
		}
		var path []string
		cur := start
		for {
			if state[cur] == finished {
				break
			}
			if state[cur] == onPath {
				for i, id := range path {
					if id == cur {
						cycle := append(append([]string{}, path[i:]...), cur)
						cycles = append(cycles, cycle)
						break
					}
				}
				break
			}
			state[cur] = onPath
			path = append(path, cur)
			next, ok := deps[cur]
			if !ok {
				break
			}
			cur = next
		}
		for _, id := range path {
			state[id] = finished
		}
	}
	return cycles
}
