package submission

import (
	"strings"
	"time"

	"github.com/praveshhq/pravesh/core"
)

// BranchList is the fixed set of academic-program codes applicants rank.
var BranchList = []string{"CS", "IT", "EC", "CH", "MH", "IC", "CL"}

// Document slots. The first five are mandatory at submission time; the
// leaving certificate is optional.
const (
	SlotCandidatePhoto     = "candidatePhoto"
	SlotAadharCard         = "aadharCard"
	SlotSSCMarksheet       = "sscMarksheet"
	SlotHSCMarksheet       = "hscMarksheet"
	SlotGujcetMarksheet    = "gujcetMarksheet"
	SlotLeavingCertificate = "leavingCertificate"
)

// DocumentSlots lists every slot with its submission-time requirement.
var DocumentSlots = []struct {
	Slot     string
	Required bool
}{
	{SlotCandidatePhoto, true},
	{SlotAadharCard, true},
	{SlotSSCMarksheet, true},
	{SlotHSCMarksheet, true},
	{SlotGujcetMarksheet, true},
	{SlotLeavingCertificate, false},
}

type PersonalDetails struct {
	FullName         string    `json:"fullName" validate:"required"`
	DOB              time.Time `json:"dob" validate:"required"`
	Gender           string    `json:"gender" validate:"required,oneof=male female"`
	Email            string    `json:"email" validate:"required,email"`
	MobileNo         string    `json:"mobileNo" validate:"required"`
	GuardianName     string    `json:"guardianName" validate:"required"`
	GuardianMobileNo string    `json:"guardianMobileNo" validate:"required"`
	GuardianEmail    string    `json:"guardianEmail" validate:"required,email"`
	Address          string    `json:"address" validate:"required"`
	City             string    `json:"city" validate:"required"`
	State            string    `json:"state" validate:"required"`
	Pincode          string    `json:"pincode" validate:"required"`
}

type EducationalDetails struct {
	SSCSchoolName        string    `json:"sscSchoolName" validate:"required"`
	SSCBoard             string    `json:"sscBoard" validate:"required"`
	SSCPassingYear       time.Time `json:"sscPassingYear" validate:"required"`
	SSCPercentile        float64   `json:"sscPercentile" validate:"required,gte=0,lte=100"`
	HSCStream            string    `json:"hscStream" validate:"required"`
	HSCSchoolName        string    `json:"hscSchoolName" validate:"required"`
	HSCBoard             string    `json:"hscBoard" validate:"required"`
	HSCPassingYear       time.Time `json:"hscPassingYear" validate:"required"`
	HSCTotalPercentile   float64   `json:"hscTotalPercentile" validate:"required,gte=0,lte=100"`
	HSCSciencePercentile float64   `json:"hscSciencePercentile" validate:"required,gte=0,lte=100"`
	GujcetRollNo         string    `json:"gujcetRollNo" validate:"required"`
	GujcetPassingYear    time.Time `json:"gujcetPassingYear" validate:"required"`
	GujcetMarks          float64   `json:"gujcetMarks" validate:"required,gte=0"`
	GujcetPercentile     float64   `json:"gujcetPercentile" validate:"required,gte=0,lte=100"`
}

type Documents struct {
	CandidatePhoto     string `json:"candidatePhoto"`
	AadharCard         string `json:"aadharCard"`
	SSCMarksheet       string `json:"sscMarksheet"`
	HSCMarksheet       string `json:"hscMarksheet"`
	GujcetMarksheet    string `json:"gujcetMarksheet"`
	LeavingCertificate string `json:"leavingCertificate,omitempty"`
}

func (d *Documents) Get(slot string) string {
	switch slot {
	case SlotCandidatePhoto:
		return d.CandidatePhoto
	case SlotAadharCard:
		return d.AadharCard
	case SlotSSCMarksheet:
		return d.SSCMarksheet
	case SlotHSCMarksheet:
		return d.HSCMarksheet
	case SlotGujcetMarksheet:
		return d.GujcetMarksheet
	case SlotLeavingCertificate:
		return d.LeavingCertificate
	}
	return ""
}

func (d *Documents) Set(slot, url string) {
	switch slot {
	case SlotCandidatePhoto:
		d.CandidatePhoto = url
	case SlotAadharCard:
		d.AadharCard = url
	case SlotSSCMarksheet:
		d.SSCMarksheet = url
	case SlotHSCMarksheet:
		d.HSCMarksheet = url
	case SlotGujcetMarksheet:
		d.GujcetMarksheet = url
	case SlotLeavingCertificate:
		d.LeavingCertificate = url
	}
}

// BranchPreferences is the ranked slot chain: slot k may only be set when
// slot k-1 is set, and set slots are pairwise distinct (struct-level
// validation in validators.go).
type BranchPreferences struct {
	Pref1 string `json:"pref1" validate:"required,branchcode"`
	Pref2 string `json:"pref2" validate:"omitempty,branchcode"`
	Pref3 string `json:"pref3" validate:"omitempty,branchcode"`
	Pref4 string `json:"pref4" validate:"omitempty,branchcode"`
	Pref5 string `json:"pref5" validate:"omitempty,branchcode"`
	Pref6 string `json:"pref6" validate:"omitempty,branchcode"`
	Pref7 string `json:"pref7" validate:"omitempty,branchcode"`
}

func (bp BranchPreferences) slots() []string {
	return []string{bp.Pref1, bp.Pref2, bp.Pref3, bp.Pref4, bp.Pref5, bp.Pref6, bp.Pref7}
}

// Chain flattens the populated slots in preference order.
func (bp BranchPreferences) Chain() []string {
	chain := make([]string, 0, 7)
	for _, slot := range bp.slots() {
		if slot != "" {
			chain = append(chain, slot)
		}
	}
	return chain
}

// Contains reports whether any populated slot matches one of branches.
func (bp BranchPreferences) Contains(branches []string) bool {
	for _, slot := range bp.Chain() {
		for _, b := range branches {
			if slot == b {
				return true
			}
		}
	}
	return false
}

// Details is the applicant-editable payload: replaced wholesale on update,
// never merged field by field.
type Details struct {
	PersonalDetails    PersonalDetails    `json:"personalDetails"`
	EducationalDetails EducationalDetails `json:"educationalDetails"`
	BranchPreferences  BranchPreferences  `json:"branchPreferences"`
}

func (d *Details) Validate() error {
	d.BranchPreferences.clean()
	return core.Validate.Struct(d)
}

func (bp *BranchPreferences) clean() {
	bp.Pref1 = strings.ToUpper(core.CleanString(bp.Pref1))
	bp.Pref2 = strings.ToUpper(core.CleanString(bp.Pref2))
	bp.Pref3 = strings.ToUpper(core.CleanString(bp.Pref3))
	bp.Pref4 = strings.ToUpper(core.CleanString(bp.Pref4))
	bp.Pref5 = strings.ToUpper(core.CleanString(bp.Pref5))
	bp.Pref6 = strings.ToUpper(core.CleanString(bp.Pref6))
	bp.Pref7 = strings.ToUpper(core.CleanString(bp.Pref7))
}

// DocumentUpload points a slot at a local temp file awaiting storage.
type DocumentUpload struct {
	Slot      string
	LocalPath string
	Required  bool
}

type Submission struct {
	ID                    string             `json:"id"`
	DegreeFormID          string             `json:"degree_form_id"`
	UserID                string             `json:"user_id"`
	DegreeFormTitle       string             `json:"degree_form_title"`
	DegreeFormDescription string             `json:"degree_form_description"`
	PersonalDetails       PersonalDetails    `json:"personalDetails"`
	EducationalDetails    EducationalDetails `json:"educationalDetails"`
	Documents             Documents          `json:"documents"`
	BranchPreferences     BranchPreferences  `json:"branchPreferences"`
	SubmittedAt           time.Time          `json:"submitted_at"` // UTC
	CreatedAt             time.Time          `json:"created_at"`   // UTC
	UpdatedAt             time.Time          `json:"updated_at"`   // UTC
}
