package mapview

import (
	"html/template"
	"strings"

	"github.com/randytsao24/gradecast/internal/grade"
	"github.com/randytsao24/gradecast/internal/models"
)

var popupTmpl = template.Must(template.New("popup").Parse(
	`<div style="font-size:14px;">` +
		`<b>{{.Name}}</b><br>` +
		`<span>Cuisine: {{.Cuisine}}</span><br>` +
		`<span>Borough: {{.Borough}}</span><br>` +
		`<span>ZIP: {{.Zipcode}}</span><br>` +
		`<span>Score: {{.Score}}</span><br>` +
		`<span>Grade: <b style="color:{{.Color}};">{{.Grade}}</b></span>` +
		`</div>`,
))

type popup struct {
	Name    string
	Cuisine string
	Borough string
	Zipcode string
	Score   string
	Grade   string
	Color   template.CSS
}

// PopupHTML renders the marker popup for r. All record text is escaped.
func PopupHTML(r models.Restaurant) (string, error) {
	zip := ""
	if r.Zipcode != nil {
		zip = *r.Zipcode
	}

	data := popup{
		Name:    Display(r.DBA, UnknownName),
		Cuisine: orUnknown(r.CuisineDescription),
		Borough: orUnknown(r.Borough),
		Zipcode: zip,
		Score:   FormatScore(r.Score),
		Grade:   Display(r.Grade, NotAvailable),
		Color:   template.CSS(grade.ColorOf(r.Grade)),
	}

	var sb strings.Builder
	if err := popupTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
