package assessment

import "github.com/soaringjerry/TalentFlow/internal/models"

// Move removes the element at from and reinserts it at to, shifting the
// elements in between by one. Out-of-range indices are treated as a
// cancelled drag and return an unchanged copy.
func Move[T any](s []T, from, to int) []T {
	out := make([]T, len(s))
	copy(out, s)
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) || from == to {
		return out
	}
	el := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = el
	return out
}

func MoveSection(a *models.Assessment, from, to int) *models.Assessment {
	out := a.Clone()
	out.Sections = Move(out.Sections, from, to)
	return out
}

// MoveQuestion reorders questions inside one section. Moving across
// sections is not supported; an unknown section is a no-op.
func MoveQuestion(a *models.Assessment, sectionID string, from, to int) *models.Assessment {
	out := a.Clone()
	si := sectionIndex(out, sectionID)
	if si < 0 {
		return out
	}
	out.Sections[si].Questions = Move(out.Sections[si].Questions, from, to)
	return out
}

// MoveSectionByID drops the dragged section onto the position of the one it
// was released over.
func MoveSectionByID(a *models.Assessment, activeID, overID string) *models.Assessment {
	return MoveSection(a, sectionIndex(a, activeID), sectionIndex(a, overID))
}

func MoveQuestionByID(a *models.Assessment, sectionID, activeID, overID string) *models.Assessment {
	si := sectionIndex(a, sectionID)
	if si < 0 {
		return a.Clone()
	}
	sec := a.Sections[si]
	return MoveQuestion(a, sectionID, questionIndex(sec, activeID), questionIndex(sec, overID))
}
