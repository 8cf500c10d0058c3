// Package views holds the server-rendered pages.
package views

import (
	"embed"
	"html/template"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

//go:embed templates/*.html
var files embed.FS

const displayDate = "01/02/2006"

// Page names accepted by gin's HTML renderer.
const (
	Index              = "index.html"
	NotFound           = "not_found.html"
	UserLogin          = "user_login.html"
	UserSignup         = "user_signup.html"
	UserProfile        = "user_profile.html"
	UserUpdateProfile  = "user_update_profile.html"
	UserChangePassword = "user_change_password.html"
	UserOptions        = "user_options.html"
	Questions          = "questions.html"
	MyCases            = "my_cases.html"
	Case               = "case.html"
	AdminLogin         = "admin_login.html"
	AllCases           = "all_cases.html"
	AdminCase          = "admin_case.html"
)

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format(displayDate)
	},
	"birthDate": func(s string) string {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return s
		}
		return t.Format(displayDate)
	},
	"status": func(open bool) string {
		if open {
			return "Open"
		}
		return "Closed"
	},
	"bodyPart": func(id string) string { return strings.ReplaceAll(id, "-", " ") },
	"title":    title,
	"join":     strings.Join,
	"inc":      func(i int) int { return i + 1 },
}

func title(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Templates parses every embedded page.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}
