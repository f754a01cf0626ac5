// Package emails renders candidate emails from an embedded template catalogue.
//
// Templates use {{.Key}} placeholders and are stored as JSON so wording can
// change without touching code.
package emails

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/talentflow/internal/types"
)

//go:embed templates.json
var templateFiles embed.FS

const templateFile = "templates.json"

// Template is the raw subject and body of one email kind.
type Template struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// cache stores the parsed catalogue to avoid repeated JSON parsing
var (
	cache   map[string]Template
	cacheMu sync.RWMutex
)

// Get retrieves the template for an email kind.
func Get(kind types.EmailType) (Template, error) {
	catalogue, err := loadCatalogue()
	if err != nil {
		return Template{}, err
	}
	tmpl, ok := catalogue[string(kind)]
	if !ok {
		return Template{}, fmt.Errorf("email template %q not found in %s", kind, templateFile)
	}
	return tmpl, nil
}

// Kinds returns every email kind with a template, sorted.
func Kinds() ([]types.EmailType, error) {
	catalogue, err := loadCatalogue()
	if err != nil {
		return nil, err
	}
	out := make([]types.EmailType, 0, len(catalogue))
	for k := range catalogue {
		out = append(out, types.EmailType(k))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Format replaces template placeholders in the form {{.Key}} with values from data.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}
	return result
}

func loadCatalogue() (map[string]Template, error) {
	cacheMu.RLock()
	if cache != nil {
		defer cacheMu.RUnlock()
		return cache, nil
	}
	cacheMu.RUnlock()

	data, err := templateFiles.ReadFile(templateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", templateFile, err)
	}
	var catalogue map[string]Template
	if err := json.Unmarshal(data, &catalogue); err != nil {
		return nil, fmt.Errorf("failed to parse template file %s: %w", templateFile, err)
	}

	cacheMu.Lock()
	cache = catalogue
	cacheMu.Unlock()
	return catalogue, nil
}

// Message is a rendered email.
type Message struct {
	Subject string
	Body    string
}

// Data carries the values an email may reference. Unused fields are ignored.
type Data struct {
	CandidateName string
	JobTitle      string
	Interview     *types.Interview
	// Message is the personal note for rejections and the body of custom emails.
	Message string
	// Subject is used by custom emails only.
	Subject string
	// InfoNeeded lists what a request_info email asks for.
	InfoNeeded []string
}

// Renderer fills templates for one company.
type Renderer struct {
	Company string
	// Location formats interview times. Nil means UTC.
	Location *time.Location
}

// NewRenderer returns a renderer signing emails for company.
func NewRenderer(company string) *Renderer {
	return &Renderer{Company: company}
}

// interviewTimeLayout renders e.g. "March 02, 2026 at 10:00 AM UTC".
const interviewTimeLayout = "January 02, 2006 at 03:04 PM MST"

// Render produces the subject and body of an email kind.
func (r *Renderer) Render(kind types.EmailType, d Data) (*Message, error) {
	tmpl, err := Get(kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case types.EmailInvitation, types.EmailConfirmation, types.EmailReminder:
		if d.Interview == nil {
			return nil, fmt.Errorf("%s email needs an interview", kind)
		}
	case types.EmailCustom:
		if strings.TrimSpace(d.Message) == "" {
			return nil, fmt.Errorf("custom email needs a message")
		}
	}

	values := map[string]string{
		"CandidateName": fallback(d.CandidateName, "Candidate"),
		"JobTitle":      fallback(d.JobTitle, "Position"),
		"CompanyName":   r.Company,
		"Signature":     "Best regards,\nHR Team\n" + r.Company,
		"Message":       strings.TrimSpace(d.Message),
		"Subject":       fallback(strings.TrimSpace(d.Subject), "Message from "+r.Company),
		"PersonalNote":  "",
		"InfoNeeded":    infoList(d),
	}
	if kind == types.EmailRejection && values["Message"] != "" {
		values["PersonalNote"] = "\n\n" + values["Message"]
	}
	if iv := d.Interview; iv != nil {
		loc := r.Location
		if loc == nil {
			loc = time.UTC
		}
		values["InterviewTime"] = iv.ScheduledAt.In(loc).Format(interviewTimeLayout)
		values["Duration"] = fmt.Sprintf("%d", iv.DurationMinutes)
		values["Location"] = fallback(iv.Location, types.LocationVirtual)
		values["MeetingLine"] = ""
		if iv.MeetingLink != "" {
			values["MeetingLine"] = "\nMeeting link: " + iv.MeetingLink
		}
	}

	return &Message{
		Subject: Format(tmpl.Subject, values),
		Body:    Format(tmpl.Body, values),
	}, nil
}

// infoList prefers listed fields and falls back to the free-text message.
func infoList(d Data) string {
	if len(d.InfoNeeded) > 0 {
		lines := make([]string, 0, len(d.InfoNeeded))
		for _, f := range d.InfoNeeded {
			if f = strings.TrimSpace(f); f != "" {
				lines = append(lines, "- "+f)
			}
		}
		if len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
	}
	if msg := strings.TrimSpace(d.Message); msg != "" {
		return msg
	}
	return "- An updated copy of your resume"
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
