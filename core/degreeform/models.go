package degreeform

import (
	"time"

	"github.com/praveshhq/pravesh/core"
)

type DegreeForm struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	ActiveFrom  time.Time `json:"active_from"` // UTC
	LastDate    time.Time `json:"last_date"`   // UTC
	CreatedAt   time.Time `json:"created_at"`  // UTC
	UpdatedAt   time.Time `json:"updated_at"`  // UTC
}

// civil timestamp layouts accepted from clients; interpreted in the
// configured fixed-offset zone, never a tz database lookup.
var civilLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NewDegreeForm carries create/update input. The window bounds arrive as
// civil wall-clock strings.
type NewDegreeForm struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ActiveFrom  string `json:"active_from" validate:"required"`
	LastDate    string `json:"last_date" validate:"required"`
}

func (nf *NewDegreeForm) Validate() error {
	nf.Title = core.CleanString(nf.Title)
	nf.Description = core.CleanString(nf.Description)
	nf.ActiveFrom = core.CleanString(nf.ActiveFrom)
	nf.LastDate = core.CleanString(nf.LastDate)
	return core.Validate.Struct(nf)
}

// Window converts the civil bounds to UTC instants.
func (nf NewDegreeForm) Window(civil *time.Location) (activeFrom, lastDate time.Time, err error) {
	if activeFrom, err = parseCivil(nf.ActiveFrom, civil); err != nil {
		return time.Time{}, time.Time{}, core.NewValidationError(err, core.FieldError{Field: "active_from", Error: "invalid timestamp"})
	}
	if lastDate, err = parseCivil(nf.LastDate, civil); err != nil {
		return time.Time{}, time.Time{}, core.NewValidationError(err, core.FieldError{Field: "last_date", Error: "invalid timestamp"})
	}
	if activeFrom.After(lastDate) {
		return time.Time{}, time.Time{}, core.NewValidationError(ErrWindowInverted, core.FieldError{Field: "active_from", Error: ErrWindowInverted.Error()})
	}
	return activeFrom, lastDate, nil
}

func parseCivil(val string, civil *time.Location) (time.Time, error) {
	var err error
	for _, layout := range civilLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, val, civil); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
