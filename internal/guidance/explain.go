package guidance

import (
	"fmt"
	"strings"

	"career-guidance-workers/internal/models"
)

type scored struct {
	transcript  models.Transcript
	pathway     models.Pathway
	major       models.Major
	academic    int
	personality int
	alignment   int
}

func (e *Engine) explanation(s scored) string {
	m := s.major
	var b strings.Builder

	if m.Pathway == s.pathway {
		fmt.Fprintf(&b, "%s builds directly on your %s subjects. ", m.Name, e.catalog.PathwayName(s.pathway))
	} else {
		fmt.Fprintf(&b, "%s belongs to the %s pathway, while your subjects lean towards %s. ",
			m.Name, e.catalog.PathwayName(m.Pathway), e.catalog.PathwayName(s.pathway))
	}

	if s.transcript.GPA >= m.RequiredGPA {
		fmt.Fprintf(&b, "Your GPA of %.2f meets the recommended %.2f. ", s.transcript.GPA, m.RequiredGPA)
	} else {
		fmt.Fprintf(&b, "Your GPA of %.2f is below the recommended %.2f. ", s.transcript.GPA, m.RequiredGPA)
	}

	fmt.Fprintf(&b, "Your personality profile indicates %s fit with this field.", fitBand(s.personality))

	if careers := m.RelatedCareers; len(careers) > 0 {
		if len(careers) > 2 {
			careers = careers[:2]
		}
		fmt.Fprintf(&b, " Typical careers include %s.", strings.Join(careers, " and "))
	}
	return b.String()
}

func fitBand(personality int) string {
	switch {
	case personality >= 70:
		return "an excellent"
	case personality >= 50:
		return "a good"
	default:
		return "a moderate"
	}
}

func (e *Engine) strengths(s scored) []string {
	out := []string{}
	if s.alignment >= 80 {
		out = append(out, fmt.Sprintf("Perfect fit for your %s pathway", e.catalog.PathwayName(s.pathway)))
	}
	if s.academic >= 70 {
		out = append(out, "Strong academic foundation for this program")
	}
	if s.personality >= 70 {
		out = append(out, "Your interests align well with this field")
	}
	switch n := len(s.major.RwandanUniversities); {
	case n == 1:
		out = append(out, "Offered at 1 university in Rwanda")
	case n > 1:
		out = append(out, fmt.Sprintf("Offered at %d universities in Rwanda", n))
	}
	if s.major.AverageSalary.Entry > 60000 {
		out = append(out, fmt.Sprintf("High earning potential, with entry salaries around $%d", s.major.AverageSalary.Entry))
	}
	return out
}

func (e *Engine) considerations(s scored) []string {
	out := []string{}
	if s.alignment < 60 {
		out = append(out, fmt.Sprintf("Outside your %s pathway, so bridging courses may be needed", e.catalog.PathwayName(s.pathway)))
	}
	if s.academic < 60 {
		out = append(out, "Your academic record may need strengthening to meet program expectations")
	}
	if s.personality < 50 {
		out = append(out, "Your interests may not strongly align with this field")
	}
	if s.major.Difficulty.Demanding() {
		out = append(out, fmt.Sprintf("Rated %s: expect a demanding workload that requires strong dedication", s.major.Difficulty))
	}
	if s.major.Duration > 4 {
		out = append(out, fmt.Sprintf("Longer course of study (%d years)", s.major.Duration))
	}
	return out
}

func nextSteps(s scored) []string {
	m := s.major
	out := []string{}
	if other := unrelatedSubjects(s.transcript.Subjects, m.RequiredSubjects); len(other) > 0 {
		out = append(out, "Consider taking courses related to "+strings.Join(other, ", "))
	}
	if s.transcript.GPA < m.RequiredGPA {
		out = append(out, fmt.Sprintf("Work on raising your GPA from %.2f to at least %.2f", s.transcript.GPA, m.RequiredGPA))
	}
	out = append(out, fmt.Sprintf("Research %s programs and their admission requirements", m.Name))
	if len(m.RelatedCareers) > 0 {
		out = append(out, fmt.Sprintf("Connect with a practising %s to learn about the profession", m.RelatedCareers[0]))
	}
	out = append(out, "Look for job shadowing or internship opportunities in the field")
	return out
}
