package models

import "time"

// QuestionType tags the input shape a question accepts.
type QuestionType string

const (
	SingleChoice QuestionType = "single-choice"
	MultiChoice  QuestionType = "multi-choice"
	ShortText    QuestionType = "short-text"
	LongText     QuestionType = "long-text"
	Numeric      QuestionType = "numeric"
	FileUpload   QuestionType = "file-upload"
)

// QuestionTypes lists every supported type in presentation order.
var QuestionTypes = []QuestionType{SingleChoice, MultiChoice, ShortText, LongText, Numeric, FileUpload}

// Valid reports whether t is one of the known type tags.
func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsText reports whether the type carries a maxLength constraint.
func (t QuestionType) IsText() bool { return t == ShortText || t == LongText }

// IsChoice reports whether the type carries an option list.
func (t QuestionType) IsChoice() bool { return t == SingleChoice || t == MultiChoice }

// Condition is the comparison a ConditionalRule applies to its prerequisite answer.
type Condition string

const (
	Equals    Condition = "equals"
	NotEquals Condition = "notEquals"
	Contains  Condition = "contains"
)

// AnonymousCandidate is recorded when a response is submitted without a candidate.
const AnonymousCandidate = "anonymous"

// Assessment is the question schema owned by one job. Section order is the
// slice order; there is no separate rank field.
type Assessment struct {
	ID        string     `json:"id" yaml:"id"`
	JobID     string     `json:"jobId" yaml:"jobId" validate:"required"`
	Title     string     `json:"title" yaml:"title"`
	Sections  []*Section `json:"sections" yaml:"sections" validate:"dive"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// Section groups questions; question order is the slice order.
type Section struct {
	ID        string      `json:"id" yaml:"id" validate:"required"`
	Title     string      `json:"title" yaml:"title"`
	Questions []*Question `json:"questions" yaml:"questions" validate:"dive"`
}

// Question is one typed prompt. Options apply to choice types, Min/Max to
// numeric and MaxLength to text types.
type Question struct {
	ID          string           `json:"id" yaml:"id" validate:"required"`
	Type        QuestionType     `json:"type" yaml:"type" validate:"required,oneof=single-choice multi-choice short-text long-text numeric file-upload"`
	Prompt      string           `json:"question" yaml:"question"`
	Required    bool             `json:"required" yaml:"required"`
	Options     []string         `json:"options,omitempty" yaml:"options,omitempty"`
	Min         *float64         `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64         `json:"max,omitempty" yaml:"max,omitempty"`
	MaxLength   *int             `json:"maxLength,omitempty" yaml:"maxLength,omitempty" validate:"omitempty,gte=0"`
	Conditional *ConditionalRule `json:"conditionalLogic,omitempty" yaml:"conditionalLogic,omitempty"`
}

// ConditionalRule gates a question's visibility on another question's answer.
type ConditionalRule struct {
	DependsOn string    `json:"dependsOn" yaml:"dependsOn"`
	Condition Condition `json:"condition" yaml:"condition"`
	Value     string    `json:"value" yaml:"value"`
}

// Response is one submitted answer set. It is never mutated after creation.
type Response struct {
	ID           string           `json:"id"`
	AssessmentID string           `json:"assessmentId"`
	CandidateID  string           `json:"candidateId"`
	Answers      map[string]Value `json:"responses"`
	SubmittedAt  time.Time        `json:"submittedAt"`
}

// Questions returns every question in presentation order.
func (a *Assessment) Questions() []*Question {
	if a == nil {
		return nil
	}
	var out []*Question
	for _, sec := range a.Sections {
		if sec == nil {
			continue
		}
		for _, q := range sec.Questions {
			if q != nil {
				out = append(out, q)
			}
		}
	}
	return out
}

// FindQuestion looks a question up by id across all sections.
func (a *Assessment) FindQuestion(id string) *Question {
	for _, q := range a.Questions() {
		if q.ID == id {
			return q
		}
	}
	return nil
}

// Clone returns a deep copy so drafts never alias committed state.
func (a *Assessment) Clone() *Assessment {
	if a == nil {
		return nil
	}
	out := *a
	out.Sections = make([]*Section, len(a.Sections))
	for i, sec := range a.Sections {
		out.Sections[i] = sec.Clone()
	}
	return &out
}

// Clone returns a deep copy of the section.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	out := *s
	out.Questions = make([]*Question, len(s.Questions))
	for i, q := range s.Questions {
		out.Questions[i] = q.Clone()
	}
	return &out
}

// Clone returns a deep copy of the question.
func (q *Question) Clone() *Question {
	if q == nil {
		return nil
	}
	out := *q
	if q.Options != nil {
		out.Options = append([]string(nil), q.Options...)
	}
	if q.Min != nil {
		v := *q.Min
		out.Min = &v
	}
	if q.Max != nil {
		v := *q.Max
		out.Max = &v
	}
	if q.MaxLength != nil {
		v := *q.MaxLength
		out.MaxLength = &v
	}
	if q.Conditional != nil {
		r := *q.Conditional
		out.Conditional = &r
	}
	return &out
}
