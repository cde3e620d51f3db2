package services

import (
	"context"

	"github.com/soaringjerry/TalentFlow/internal/assessment"
	"github.com/soaringjerry/TalentFlow/internal/models"
)

type seedQuestion struct {
	key       string
	typ       models.QuestionType
	prompt    string
	required  bool
	options   []string
	min, max  *float64
	maxLength *int
	dependsOn string
	equals    string
}

type seedSection struct {
	title     string
	questions []seedQuestion
}

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

var sampleSections = []seedSection{
	{title: "Professional Experience", questions: []seedQuestion{
		{key: "exp-years", typ: models.SingleChoice, required: true,
			prompt:  "How many years of relevant professional experience do you have?",
			options: []string{"0-1 years", "2-3 years", "4-5 years", "6+ years"}},
		{key: "senior-exp", typ: models.LongText, required: true, maxLength: ip(800),
			prompt:    "Please describe your senior-level experience and leadership roles",
			dependsOn: "exp-years", equals: "6+ years"},
		{key: "tech-stack", typ: models.MultiChoice, required: true,
			prompt:  "Which technologies/tools are you proficient in?",
			options: []string{"JavaScript/TypeScript", "React", "Node.js", "Python", "Java", "AWS/Azure", "Docker/Kubernetes", "SQL/NoSQL"}},
		{key: "achievement", typ: models.ShortText, required: true, maxLength: ip(500),
			prompt: "Describe your most significant professional achievement"},
		{key: "problem-solving", typ: models.LongText, required: true, maxLength: ip(1000),
			prompt: "Explain your approach to solving complex technical problems"},
		{key: "self-rating", typ: models.Numeric, required: true, min: fp(1), max: fp(10),
			prompt: "Rate your technical expertise (1-10)"},
	}},
	{title: "Skills & Competencies", questions: []seedQuestion{
		{key: "team-lead", typ: models.SingleChoice, required: true,
			prompt:  "Have you led a team before?",
			options: []string{"Yes", "No", "Informally"}},
		{key: "team-size", typ: models.Numeric, required: true, min: fp(1), max: fp(100),
			prompt:    "How many team members did you lead?",
			dependsOn: "team-lead", equals: "Yes"},
		{key: "deadline-handling", typ: models.SingleChoice, required: true,
			prompt:  "How do you handle tight deadlines and pressure?",
			options: []string{"Prioritize tasks effectively", "Communicate with team and stakeholders", "Break down work into manageable chunks", "Stay focused and maintain quality"}},
		{key: "team-challenge", typ: models.LongText, required: true, maxLength: ip(800),
			prompt: "Describe a challenging team situation and how you handled it"},
		{key: "remote-work", typ: models.SingleChoice, required: true,
			prompt:  "Do you prefer remote, hybrid, or on-site work?",
			options: []string{"Remote", "Hybrid", "On-site", "Flexible"}},
		{key: "resume-upload", typ: models.FileUpload, required: false,
			prompt: "Upload your resume (optional)"},
	}},
}

// SeedSampleAssessment authors the sample two-section assessment for jobID
// through a builder session and commits it. It returns the committed schema
// and the generated question ids keyed by their sample names.
func SeedSampleAssessment(ctx context.Context, store AssessmentStore, jobID, title string) (*models.Assessment, map[string]string, error) {
	b, err := OpenBuilder(ctx, store, jobID)
	if err != nil {
		return nil, nil, err
	}
	if err := b.Replace(&models.Assessment{}); err != nil {
		return nil, nil, err
	}
	if title != "" {
		b.SetTitle(title)
	}

	ids := map[string]string{}
	for _, ss := range sampleSections {
		sec := b.AddSection()
		t := ss.title
		if err := b.UpdateSection(sec.ID, assessment.SectionPatch{Title: &t}); err != nil {
			return nil, nil, err
		}
		for _, sq := range ss.questions {
			q, err := b.AddQuestion(sec.ID)
			if err != nil {
				return nil, nil, err
			}
			ids[sq.key] = q.ID
			sq := sq
			patch := assessment.QuestionPatch{
				Type:      &sq.typ,
				Prompt:    &sq.prompt,
				Required:  &sq.required,
				Min:       sq.min,
				Max:       sq.max,
				MaxLength: sq.maxLength,
			}
			if sq.options != nil {
				patch.Options = sq.options
				patch.SetOptions = true
			}
			if err := b.UpdateQuestion(sec.ID, q.ID, patch); err != nil {
				return nil, nil, err
			}
			if sq.dependsOn != "" {
				rule := models.ConditionalRule{DependsOn: ids[sq.dependsOn], Condition: models.Equals, Value: sq.equals}
				if err := b.SetRule(sec.ID, q.ID, rule); err != nil {
					return nil, nil, err
				}
			}
		}
	}

	committed, err := b.Commit(ctx)
	if err != nil {
		return nil, nil, err
	}
	return committed, ids, nil
}
