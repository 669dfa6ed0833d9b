package validation

import (
	"embed"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"loneus/cv-builder/internal/models"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// FieldError describes one failed rule on a field path such as "experiences.0.company".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the list of field errors produced by a validation pass.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any error targets the given field path.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// AIResponseKind selects one of the generation output schemas.
type AIResponseKind string

const (
	AIResponseCVContent   AIResponseKind = "cv_content"
	AIResponseATSScore    AIResponseKind = "ats_score"
	AIResponseCoverLetter AIResponseKind = "cover_letter"
)

var (
	profileSchema    *gojsonschema.Schema
	aiResponseSchema = map[AIResponseKind]*gojsonschema.Schema{}

	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	indexPattern = regexp.MustCompile(`\.\d+(\.|$)`)
)

// messages keyed by normalized field path and gojsonschema error type.
var messages = map[string]string{
	"fullName|string_gte":                 "Full name must be at least 2 characters.",
	"jobTitle|string_gte":                 "Job title must be at least 2 characters.",
	"email|format":                        "Invalid email",
	"linkedin|format":                     "Please enter a valid URL.",
	"github|format":                       "Please enter a valid URL.",
	"portfolio|format":                    "Please enter a valid URL.",
	"summary|string_lte":                  "Summary cannot exceed 1000 characters.",
	"experiences.*.jobTitle|string_gte":   "Job title is required.",
	"experiences.*.company|string_gte":    "Company is required.",
	"educations.*.degree|string_gte":      "Degree or certificate is required.",
	"educations.*.institution|string_gte": "Institution is required.",
}

type emailAddressChecker struct{}

func (emailAddressChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return true
	}
	return IsEmail(s)
}

// IsEmail reports whether s looks like an email address. Registration and
// the profile schema share this rule.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

type urlOrEmptyChecker struct{}

func (urlOrEmptyChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok || s == "" {
		return true
	}
	return IsAbsoluteURL(s)
}

// IsAbsoluteURL accepts anything with a scheme and either a host or an opaque part.
func IsAbsoluteURL(s string) bool {
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

func init() {
	gojsonschema.FormatCheckers.Add("email-address", emailAddressChecker{})
	gojsonschema.FormatCheckers.Add("url-or-empty", urlOrEmptyChecker{})

	profileSchema = mustLoadSchema("schemas/profile.schema.json")
	aiResponseSchema[AIResponseCVContent] = mustLoadSchema("schemas/cv_content.schema.json")
	aiResponseSchema[AIResponseATSScore] = mustLoadSchema("schemas/ats_score.schema.json")
	aiResponseSchema[AIResponseCoverLetter] = mustLoadSchema("schemas/cover_letter.schema.json")
}

func mustLoadSchema(name string) *gojsonschema.Schema {
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to read schema %s: %v", name, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("failed to compile schema %s: %v", name, err))
	}
	return schema
}

// ValidateProfile checks the whole aggregate. A nil result means valid.
func ValidateProfile(form models.ProfileForm) Errors {
	return validateProfile(form, nil)
}

// ValidateSection checks the aggregate but only reports errors whose
// top-level field belongs to fields.
func ValidateSection(form models.ProfileForm, fields []string) Errors {
	scope := make(map[string]bool, len(fields))
	for _, f := range fields {
		scope[f] = true
	}
	return validateProfile(form, scope)
}

func validateProfile(form models.ProfileForm, scope map[string]bool) Errors {
	res, err := profileSchema.Validate(gojsonschema.NewGoLoader(form))
	if err != nil {
		return Errors{{Field: "(root)", Message: err.Error()}}
	}
	if res.Valid() {
		return nil
	}

	var out Errors
	for _, re := range res.Errors() {
		field := fieldPath(re)
		if scope != nil && !scope[topLevel(field)] {
			continue
		}
		out = append(out, FieldError{Field: field, Message: messageFor(field, re)})
	}
	return out
}

// ValidateAIResponse checks raw model JSON against the output schema of kind.
func ValidateAIResponse(kind AIResponseKind, raw string) Errors {
	schema, ok := aiResponseSchema[kind]
	if !ok {
		return Errors{{Field: "(root)", Message: fmt.Sprintf("unknown response kind %q", kind)}}
	}
	res, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return Errors{{Field: "(root)", Message: err.Error()}}
	}
	if res.Valid() {
		return nil
	}

	var out Errors
	for _, re := range res.Errors() {
		out = append(out, FieldError{Field: fieldPath(re), Message: re.Description()})
	}
	return out
}

func fieldPath(re gojsonschema.ResultError) string {
	field := re.Field()
	if re.Type() == "required" {
		if prop, ok := re.Details()["property"].(string); ok {
			if field == "(root)" {
				return prop
			}
			return field + "." + prop
		}
	}
	return field
}

func topLevel(field string) string {
	return strings.SplitN(field, ".", 2)[0]
}

func messageFor(field string, re gojsonschema.ResultError) string {
	key := indexPattern.ReplaceAllString(field, ".*$1") + "|" + re.Type()
	if msg, ok := messages[key]; ok {
		return msg
	}
	return re.Description()
}
