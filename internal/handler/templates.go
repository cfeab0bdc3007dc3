package handler

import (
	"fmt"
	"html/template"
	"log"

	"view-tracker/internal/domain"
)

// TemplateFuncs returns the custom template functions used across all templates
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// gainClass maps a gain's sign to the CSS class used for coloring
		"gainClass": func(gain int64) string {
			switch {
			case gain > 0:
				return "gain-positive"
			case gain < 0:
				return "gain-negative"
			default:
				return "gain-neutral"
			}
		},
		// fmtRate formats a rate with exactly two decimal places
		"fmtRate": func(rate float64) string {
			return fmt.Sprintf("%.2f", rate)
		},
		// fmtTime formats a timestamp for table display
		"fmtTime": func(t interface{ Format(string) string }) string {
			return t.Format("2006-01-02 15:04")
		},
		// reversePoints returns a day's points newest-first for table
		// display; charts consume the stored ascending order directly
		"reversePoints": func(points []domain.SamplePoint) []domain.SamplePoint {
			reversed := make([]domain.SamplePoint, len(points))
			for i, p := range points {
				reversed[len(points)-1-i] = p
			}
			return reversed
		},
		// add adds two integers
		"add": func(a, b int) int {
			return a + b
		},
		// sub subtracts two integers
		"sub": func(a, b int) int {
			return a - b
		},
		// seq generates a sequence of integers from start to end (inclusive)
		"seq": func(start, end int) []int {
			result := make([]int, 0, end-start+1)
			for i := start; i <= end; i++ {
				result = append(result, i)
			}
			return result
		},
	}
}

// LoadTemplates loads all HTML templates with custom functions
func LoadTemplates() *template.Template {
	tmpl := template.New("").Funcs(TemplateFuncs())
	tmpl, err := tmpl.ParseGlob("templates/*.html")
	if err != nil {
		log.Printf("Warning: failed to load templates: %v", err)
		return template.New("empty").Funcs(TemplateFuncs())
	}
	return tmpl
}
