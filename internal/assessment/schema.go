// Package assessment holds the pure schema engine: edit reducers, ordering,
// conditional visibility and answer validation. Every function takes its
// inputs by value or clones them; nothing here touches storage.
package assessment

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/soaringjerry/TalentFlow/internal/models"
)

const (
	DefaultTitle        = "Assessment"
	DefaultSectionTitle = "New Section"
)

var (
	ErrSectionNotFound  = errors.New("section not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrSelfDependency   = errors.New("question cannot depend on itself")
)

var newID = uuid.NewString

// NewAssessment returns the default empty schema for a job that has none.
func NewAssessment(jobID string, now time.Time) *models.Assessment {
	return &models.Assessment{
		ID:        newID(),
		JobID:     jobID,
		Title:     DefaultTitle,
		Sections:  []*models.Section{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewSection() *models.Section {
	return &models.Section{ID: newID(), Title: DefaultSectionTitle, Questions: []*models.Question{}}
}

func NewQuestion() *models.Question {
	return &models.Question{ID: newID(), Type: models.ShortText, Required: true}
}

// SectionPatch lists the section fields an edit may replace.
type SectionPatch struct {
	Title *string
}

// QuestionPatch lists the question fields an edit may replace. Nil fields
// are left as they are; the Clear* flags unset optional constraints.
type QuestionPatch struct {
	Type           *models.QuestionType
	Prompt         *string
	Required       *bool
	Options        []string
	SetOptions     bool
	Min            *float64
	Max            *float64
	MaxLength      *int
	ClearMin       bool
	ClearMax       bool
	ClearMaxLength bool
}

func AddSection(a *models.Assessment, sec *models.Section) *models.Assessment {
	out := a.Clone()
	out.Sections = append(out.Sections, sec.Clone())
	return out
}

func UpdateSection(a *models.Assessment, sectionID string, patch SectionPatch) (*models.Assessment, error) {
	out := a.Clone()
	idx := sectionIndex(out, sectionID)
	if idx < 0 {
		return nil, ErrSectionNotFound
	}
	if patch.Title != nil {
		out.Sections[idx].Title = *patch.Title
	}
	return out, nil
}

func RemoveSection(a *models.Assessment, sectionID string) (*models.Assessment, error) {
	idx := sectionIndex(a, sectionID)
	if idx < 0 {
		return nil, ErrSectionNotFound
	}
	out := a.Clone()
	out.Sections = append(out.Sections[:idx], out.Sections[idx+1:]...)
	return out, nil
}

func AddQuestion(a *models.Assessment, sectionID string, q *models.Question) (*models.Assessment, error) {
	out := a.Clone()
	idx := sectionIndex(out, sectionID)
	if idx < 0 {
		return nil, ErrSectionNotFound
	}
	sec := out.Sections[idx]
	sec.Questions = append(sec.Questions, q.Clone())
	return out, nil
}

func UpdateQuestion(a *models.Assessment, sectionID, questionID string, patch QuestionPatch) (*models.Assessment, error) {
	out, q, err := locate(a, sectionID, questionID)
	if err != nil {
		return nil, err
	}
	if patch.Type != nil {
		q.Type = *patch.Type
	}
	if patch.Prompt != nil {
		q.Prompt = *patch.Prompt
	}
	if patch.Required != nil {
		q.Required = *patch.Required
	}
	if patch.SetOptions {
		q.Options = append([]string(nil), patch.Options...)
	}
	if patch.ClearMin {
		q.Min = nil
	} else if patch.Min != nil {
		v := *patch.Min
		q.Min = &v
	}
	if patch.ClearMax {
		q.Max = nil
	} else if patch.Max != nil {
		v := *patch.Max
		q.Max = &v
	}
	if patch.ClearMaxLength {
		q.MaxLength = nil
	} else if patch.MaxLength != nil {
		v := *patch.MaxLength
		q.MaxLength = &v
	}
	return out, nil
}

func RemoveQuestion(a *models.Assessment, sectionID, questionID string) (*models.Assessment, error) {
	out := a.Clone()
	si := sectionIndex(out, sectionID)
	if si < 0 {
		return nil, ErrSectionNotFound
	}
	sec := out.Sections[si]
	qi := questionIndex(sec, questionID)
	if qi < 0 {
		return nil, ErrQuestionNotFound
	}
	sec.Questions = append(sec.Questions[:qi], sec.Questions[qi+1:]...)
	return out, nil
}

// SetRule attaches or replaces a question's conditional rule. A rule that
// points back at its own question is rejected, not corrected.
func SetRule(a *models.Assessment, sectionID, questionID string, rule models.ConditionalRule) (*models.Assessment, error) {
	if rule.DependsOn == questionID {
		return nil, ErrSelfDependency
	}
	out, q, err := locate(a, sectionID, questionID)
	if err != nil {
		return nil, err
	}
	if rule.Condition == "" {
		rule.Condition = models.Equals
	}
	q.Conditional = &rule
	return out, nil
}

func ClearRule(a *models.Assessment, sectionID, questionID string) (*models.Assessment, error) {
	out, q, err := locate(a, sectionID, questionID)
	if err != nil {
		return nil, err
	}
	q.Conditional = nil
	return out, nil
}

func locate(a *models.Assessment, sectionID, questionID string) (*models.Assessment, *models.Question, error) {
	out := a.Clone()
	si := sectionIndex(out, sectionID)
	if si < 0 {
		return nil, nil, ErrSectionNotFound
	}
	qi := questionIndex(out.Sections[si], questionID)
	if qi < 0 {
		return nil, nil, ErrQuestionNotFound
	}
	return out, out.Sections[si].Questions[qi], nil
}

func sectionIndex(a *models.Assessment, id string) int {
	for i, sec := range a.Sections {
		if sec != nil && sec.ID == id {
			return i
		}
	}
	return -1
}

func questionIndex(sec *models.Section, id string) int {
	for i, q := range sec.Questions {
		if q != nil && q.ID == id {
			return i
		}
	}
	return -1
}
