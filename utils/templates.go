package utils

import (
	"bytes"
	"embed"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/leekchan/accounting"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// Templates holds the parsed HTML and plain-text email bodies.
type Templates struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// NewTemplates parses the embedded templates. Money is formatted in currency.
func NewTemplates(currency string) (*Templates, error) {
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
	}
	ac := accounting.Accounting{Symbol: symbol, Precision: 2}
	money := func(v float64) string { return ac.FormatMoney(v) }

	html, err := htmltemplate.New("email").
		Funcs(htmltemplate.FuncMap{"money": money}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	text, err := texttemplate.New("email").
		Funcs(texttemplate.FuncMap{"money": money}).
		ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, err
	}
	return &Templates{html: html, text: text}, nil
}

// Render executes name.html and name.txt with data.
func (t *Templates) Render(name string, data interface{}) (string, string, error) {
	var html, text bytes.Buffer
	if err := t.html.ExecuteTemplate(&html, name+".html", data); err != nil {
		return "", "", err
	}
	if err := t.text.ExecuteTemplate(&text, name+".txt", data); err != nil {
		return "", "", err
	}
	return html.String(), text.String(), nil
}
