package model

import "time"

// Field types accepted by the form builder.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldSelect   = "select"
	FieldCheckbox = "checkbox"
	FieldRadio    = "radio"
)

var FieldTypes = []string{FieldText, FieldTextarea, FieldSelect, FieldCheckbox, FieldRadio}

func ValidFieldType(t string) bool {
	for _, ft := range FieldTypes {
		if t == ft {
			return true
		}
	}
	return false
}

// FormVersion is one immutable snapshot of a logical form. All versions
// of one logical form share a FormKey; Version grows by 1 on every edit.
type FormVersion struct {
	ID          string      `json:"id"`
	FormKey     string      `json:"formKey"`
	Version     int         `json:"version"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Fields      []FormField `json:"fields"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type FormField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required,omitempty"`
}

// Submission records the answers a respondent gave against one exact
// form version. FormVersion is copied from the version at submit time
// and never changes afterwards, even if the form is edited later.
type Submission struct {
	ID          string            `json:"id"`
	FormID      string            `json:"formId"`
	FormVersion int               `json:"formVersion"`
	Answers     map[string]string `json:"answers"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
