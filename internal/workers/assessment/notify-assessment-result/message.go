package notifyassessmentresult

import (
	"bytes"
	htmltemplate "html/template"
	"strconv"
	"strings"
	"text/template"

	"career-guidance-workers/internal/models"
)

type messageData struct {
	Name    string
	Matches []models.CareerRecommendation
}

const subjectLine = "Your career guidance results are ready"

var textBody = template.Must(template.New("text").
	Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(
		`Hello {{.Name}},

Your career guidance assessment is complete. Your strongest matches are:
{{range $i, $r := .Matches}}
{{inc $i}}. {{$r.Major.Name}} ({{$r.MatchPercentage}}% match)
   {{$r.Explanation}}
{{end}}
Log in to see the full list with strengths, considerations and next steps.
`))

var htmlBody = htmltemplate.Must(htmltemplate.New("html").Parse(
	`<p>Hello {{.Name}},</p>
<p>Your career guidance assessment is complete. Your strongest matches are:</p>
<ol>{{range .Matches}}
<li><strong>{{.Major.Name}}</strong> ({{.MatchPercentage}}% match)<br>{{.Explanation}}</li>{{end}}
</ol>
<p>Log in to see the full list with strengths, considerations and next steps.</p>
`))

func render(name string, matches []models.CareerRecommendation) (text, html string, err error) {
	if strings.TrimSpace(name) == "" {
		name = "there"
	}
	data := messageData{Name: name, Matches: matches}

	var tb, hb bytes.Buffer
	if err := textBody.Execute(&tb, data); err != nil {
		return "", "", err
	}
	if err := htmlBody.Execute(&hb, data); err != nil {
		return "", "", err
	}
	return tb.String(), hb.String(), nil
}

// smsText fits the top match into a single SMS segment where possible.
func smsText(matches []models.CareerRecommendation) string {
	var b strings.Builder
	b.WriteString("Career guidance results: ")
	for i, r := range matches {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.Major.Name)
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(r.MatchPercentage))
		b.WriteString("%")
	}
	b.WriteString(". Check your email for details.")
	return b.String()
}
