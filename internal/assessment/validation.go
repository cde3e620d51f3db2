package assessment

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/soaringjerry/TalentFlow/internal/models"
)

// FieldError codes.
const (
	CodeRequired      = "required"
	CodeInvalidNumber = "invalid_number"
	CodeMin           = "min"
	CodeMax           = "max"
	CodeMaxLength     = "max_length"
)

// FieldError is a user-correctable problem with one answer.
type FieldError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Limit   *float64 `json:"limit,omitempty"`
}

func (e *FieldError) Error() string { return e.Message }

// ValidationErrors holds one error per failing live question. An empty map
// means the answers may be submitted.
type ValidationErrors map[string]*FieldError

func (v ValidationErrors) OK() bool { return len(v) == 0 }

// Validate checks one answer against its question: required first, then
// numeric parsing and bounds, then text length. It does not look at
// visibility; callers only pass live questions.
func Validate(q *models.Question, v models.Value) *FieldError {
	if q.Required && v.Blank() {
		return &FieldError{Code: CodeRequired, Message: "This field is required"}
	}

	switch q.Type {
	case models.Numeric:
		if v.Blank() {
			return nil
		}
		n, ok := v.Float()
		if !ok {
			return &FieldError{Code: CodeInvalidNumber, Message: "Please enter a valid number"}
		}
		if q.Min != nil && n < *q.Min {
			return boundError(CodeMin, "Value must be at least %s", *q.Min)
		}
		if q.Max != nil && n > *q.Max {
			return boundError(CodeMax, "Value must be at most %s", *q.Max)
		}
	case models.ShortText, models.LongText:
		if v.Blank() || q.MaxLength == nil || *q.MaxLength <= 0 {
			return nil
		}
		if utf8.RuneCountInString(v.Text) > *q.MaxLength {
			limit := float64(*q.MaxLength)
			return &FieldError{
				Code:    CodeMaxLength,
				Message: fmt.Sprintf("Maximum length is %d characters", *q.MaxLength),
				Limit:   &limit,
			}
		}
	}
	return nil
}

func boundError(code, format string, limit float64) *FieldError {
	l := limit
	return &FieldError{
		Code:    code,
		Message: fmt.Sprintf(format, strconv.FormatFloat(limit, 'f', -1, 64)),
		Limit:   &l,
	}
}

// ValidateAll validates every live question. Visibility is recomputed from
// answers on each call so a stale result can never gate validation.
func ValidateAll(a *models.Assessment, answers Answers) ValidationErrors {
	live := Live(a, answers)
	errs := ValidationErrors{}
	for _, q := range a.Questions() {
		if !live[q.ID] {
			continue
		}
		if fe := Validate(q, answers[q.ID]); fe != nil {
			errs[q.ID] = fe
		}
	}
	return errs
}
