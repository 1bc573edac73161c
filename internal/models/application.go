package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yoockh/jobtrack/internal/datefmt"
)

type Status string

const (
	StatusWaiting      Status = "Waiting"
	StatusInterviewing Status = "Interviewing"
	StatusOffered      Status = "Offered"
	StatusDeclined     Status = "Declined"
)

// Statuses lists every status in form order.
var Statuses = []Status{StatusWaiting, StatusInterviewing, StatusOffered, StatusDeclined}

var (
	ErrInvalidStatus  = errors.New("status must be one of Waiting, Interviewing, Offered, Declined")
	ErrAttachmentPair = errors.New("cvFileName and cvBase64 must be set together")
)

// statusRule must list the same values as Statuses.
const statusRule = "oneof=Waiting Interviewing Offered Declined"

// validate is shared by every record and form check. Field names in its errors
// are the json names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	UseJSONNames(v)
	return v
}

// UseJSONNames makes v report fields by their json name. gin's binding
// validator is set up with it too so both paths produce the same messages.
func UseJSONNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidationError turns validator failures into the messages shown to users.
// Other errors are returned unchanged.
func ValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			errs = append(errs, fmt.Errorf("%s is required", fe.Field()))
		case "oneof":
			errs = append(errs, ErrInvalidStatus)
		case "required_with":
			errs = append(errs, ErrAttachmentPair)
		default:
			errs = append(errs, fmt.Errorf("%s is invalid", fe.Field()))
		}
	}
	return errors.Join(errs...)
}

// ParseStatus maps user input onto the closed set. Empty input is the form default.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return StatusWaiting, nil
	}
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

func (s Status) Valid() bool {
	return validate.Var(string(s), statusRule) == nil
}

// Badge returns the colour family used when rendering the status.
func (s Status) Badge() string {
	switch s {
	case StatusWaiting:
		return "blue"
	case StatusInterviewing:
		return "orange"
	case StatusOffered:
		return "emerald"
	case StatusDeclined:
		return "red"
	}
	return "slate"
}

// JobApplication is one tracked application. It is stored as a single document;
// the owning user id lives outside the record.
//
// binding tags run when gin decodes a request body. The id comes from the
// path on update and an empty status defaults to Waiting, so neither is
// required there.
type JobApplication struct {
	ID          string  `bson:"id" json:"id" validate:"required"`
	Company     string  `bson:"company" json:"company" binding:"required" validate:"required"`
	Role        string  `bson:"role" json:"role" binding:"required" validate:"required"`
	DateApplied string  `bson:"dateApplied" json:"dateApplied" binding:"required" validate:"required"` // DD/MM/YYYY, legacy YYYY-MM-DD
	Status      Status  `bson:"status" json:"status" binding:"omitempty,oneof=Waiting Interviewing Offered Declined" validate:"oneof=Waiting Interviewing Offered Declined"`
	JobLink     string  `bson:"jobLink" json:"jobLink"`
	CVFileName  *string `bson:"cvFileName" json:"cvFileName" binding:"required_with=CVBase64" validate:"required_with=CVBase64"`
	CVBase64    *string `bson:"cvBase64" json:"cvBase64" binding:"required_with=CVFileName" validate:"required_with=CVFileName"` // data URL
	Notes       string  `bson:"notes" json:"notes"`
}

func (a *JobApplication) HasAttachment() bool {
	return a.CVFileName != nil && a.CVBase64 != nil
}

func (a *JobApplication) SetAttachment(fileName, dataURL string) {
	a.CVFileName = &fileName
	a.CVBase64 = &dataURL
}

func (a *JobApplication) ClearAttachment() {
	a.CVFileName = nil
	a.CVBase64 = nil
}

// Clone returns a deep copy; attachment pointers are not shared.
func (a JobApplication) Clone() JobApplication {
	return a.Form().Apply(a)
}

// Form returns the editable fields of the record.
func (a JobApplication) Form() ApplicationForm {
	return ApplicationForm{
		Company:     a.Company,
		Role:        a.Role,
		DateApplied: a.DateApplied,
		Status:      a.Status,
		JobLink:     a.JobLink,
		CVFileName:  cloneString(a.CVFileName),
		CVBase64:    cloneString(a.CVBase64),
		Notes:       a.Notes,
	}
}

// Validate checks the record with surrounding whitespace ignored.
func (a JobApplication) Validate() error {
	a.ID = strings.TrimSpace(a.ID)
	a.Company = strings.TrimSpace(a.Company)
	a.Role = strings.TrimSpace(a.Role)
	a.DateApplied = strings.TrimSpace(a.DateApplied)
	return ValidationError(validate.Struct(a))
}

// ApplicationForm is the record without its id, as captured by the entry form.
type ApplicationForm struct {
	Company     string  `json:"company" validate:"required"`
	Role        string  `json:"role" validate:"required"`
	DateApplied string  `json:"dateApplied" validate:"required"`
	Status      Status  `json:"status" validate:"oneof=Waiting Interviewing Offered Declined"`
	JobLink     string  `json:"jobLink"`
	CVFileName  *string `json:"cvFileName" validate:"required_with=CVBase64"`
	CVBase64    *string `json:"cvBase64" validate:"required_with=CVFileName"`
	Notes       string  `json:"notes"`
}

// NewForm returns the defaults of an empty entry form.
func NewForm() ApplicationForm {
	return ApplicationForm{
		DateApplied: datefmt.TodayText(),
		Status:      StatusWaiting,
	}
}

func (f *ApplicationForm) SetAttachment(fileName, dataURL string) {
	f.CVFileName = &fileName
	f.CVBase64 = &dataURL
}

func (f *ApplicationForm) ClearAttachment() {
	f.CVFileName = nil
	f.CVBase64 = nil
}

// Validate checks the form with surrounding whitespace ignored.
func (f ApplicationForm) Validate() error {
	f.Company = strings.TrimSpace(f.Company)
	f.Role = strings.TrimSpace(f.Role)
	f.DateApplied = strings.TrimSpace(f.DateApplied)
	return ValidationError(validate.Struct(f))
}

// Apply merges the form onto an existing record. The id is never taken from the form.
func (f ApplicationForm) Apply(existing JobApplication) JobApplication {
	return JobApplication{
		ID:          existing.ID,
		Company:     f.Company,
		Role:        f.Role,
		DateApplied: f.DateApplied,
		Status:      f.Status,
		JobLink:     f.JobLink,
		CVFileName:  cloneString(f.CVFileName),
		CVBase64:    cloneString(f.CVBase64),
		Notes:       f.Notes,
	}
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
