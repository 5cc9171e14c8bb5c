package submission

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/praveshhq/pravesh/core"
)

// RankedSubmission decorates a submission with its merit position and the
// preference chain flattened for display.
type RankedSubmission struct {
	Submission
	Rank        int      `json:"rank"`
	Preferences []string `json:"branchPreferences"`
}

// SubmissionColumns is the spreadsheet layout of an export, one column per
// ExportRows key.
var SubmissionColumns = []core.Column{
	{Header: "Rank", Key: "rank", Width: 10},
	{Header: "GUJCET Percentile", Key: "gujcetPercentile", Width: 20},
	{Header: "Full Name", Key: "fullName", Width: 25},
	{Header: "Date of Birth", Key: "dob", Width: 15},
	{Header: "Gender", Key: "gender", Width: 10},
	{Header: "Email", Key: "email", Width: 30},
	{Header: "Mobile No.", Key: "mobileNo", Width: 15},
	{Header: "Guardian Name", Key: "guardianName", Width: 25},
	{Header: "Guardian Mobile No.", Key: "guardianMobileNo", Width: 25},
	{Header: "Guardian Email", Key: "guardianEmail", Width: 30},
	{Header: "Address", Key: "address", Width: 40},
	{Header: "City", Key: "city", Width: 20},
	{Header: "State", Key: "state", Width: 20},
	{Header: "Pincode", Key: "pincode", Width: 10},
	{Header: "SSC School", Key: "sscSchoolName", Width: 30},
	{Header: "SSC Board", Key: "sscBoard", Width: 15},
	{Header: "SSC Passing Year", Key: "sscPassingYear", Width: 20},
	{Header: "SSC Percentile", Key: "sscPercentile", Width: 20},
	{Header: "HSC Stream", Key: "hscStream", Width: 15},
	{Header: "HSC School", Key: "hscSchoolName", Width: 30},
	{Header: "HSC Board", Key: "hscBoard", Width: 15},
	{Header: "HSC Passing Year", Key: "hscPassingYear", Width: 20},
	{Header: "HSC Total Percentile", Key: "hscTotalPercentile", Width: 25},
	{Header: "HSC Science Percentile", Key: "hscSciencePercentile", Width: 25},
	{Header: "GUJCET Roll No.", Key: "gujcetRollNo", Width: 20},
	{Header: "GUJCET Passing Year", Key: "gujcetPassingYear", Width: 20},
	{Header: "GUJCET Marks", Key: "gujcetMarks", Width: 15},
	{Header: "Branch Preferences", Key: "branchPreferences", Width: 30},
	{Header: "Photo", Key: "photo", Width: 15},
	{Header: "Aadhar Card", Key: "aadharCard", Width: 15},
	{Header: "SSC Marksheet", Key: "sscMarksheet", Width: 15},
	{Header: "HSC Marksheet", Key: "hscMarksheet", Width: 15},
	{Header: "GUJCET Marksheet", Key: "gujcetMarksheet", Width: 20},
	{Header: "Leaving Certificate", Key: "leavingCertificate", Width: 20},
	{Header: "Submitted At", Key: "submittedAt", Width: 25},
}

// Rank returns the form's submissions ordered by GUJCET percentile, highest
// first. When branches is non-empty only submissions whose preference chain
// contains at least one of them are considered. Rank is the 1-based position
// in the sorted, filtered list; ties keep arrival order and get distinct
// ranks. Truncation to limit happens after ranking, so ranks survive a
// shortened list; limit <= 0 means no truncation.
func (svc *Service) Rank(ctx context.Context, formID string, branches []string, limit int) ([]RankedSubmission, error) {
	if _, err := svc.forms.GetFormByID(ctx, formID); err != nil {
		return nil, err
	}
	subs, err := svc.repo.QuerySubmissionsByForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	filtered := subs[:0:0]
	for _, sub := range subs {
		if len(branches) == 0 || sub.BranchPreferences.Contains(branches) {
			filtered = append(filtered, sub)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].EducationalDetails.GujcetPercentile > filtered[j].EducationalDetails.GujcetPercentile
	})

	ranked := make([]RankedSubmission, 0, len(filtered))
	for i, sub := range filtered {
		ranked = append(ranked, RankedSubmission{
			Submission:  sub,
			Rank:        i + 1,
			Preferences: sub.BranchPreferences.Chain(),
		})
	}

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// ExportRows flattens ranked submissions into spreadsheet rows keyed by
// SubmissionColumns. Calendar fields and the submission instant render in
// the given civil time zone.
func ExportRows(ranked []RankedSubmission, civil *time.Location) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(ranked))
	for _, rs := range ranked {
		p, e, d := rs.PersonalDetails, rs.EducationalDetails, rs.Documents
		rows = append(rows, map[string]interface{}{
			"rank":                 rs.Rank,
			"gujcetPercentile":     e.GujcetPercentile,
			"fullName":             p.FullName,
			"dob":                  p.DOB.In(civil).Format("2006-01-02"),
			"gender":               p.Gender,
			"email":                p.Email,
			"mobileNo":             p.MobileNo,
			"guardianName":         p.GuardianName,
			"guardianMobileNo":     p.GuardianMobileNo,
			"guardianEmail":        p.GuardianEmail,
			"address":              p.Address,
			"city":                 p.City,
			"state":                p.State,
			"pincode":              p.Pincode,
			"sscSchoolName":        e.SSCSchoolName,
			"sscBoard":             e.SSCBoard,
			"sscPassingYear":       calendarYear(e.SSCPassingYear, civil),
			"sscPercentile":        e.SSCPercentile,
			"hscStream":            e.HSCStream,
			"hscSchoolName":        e.HSCSchoolName,
			"hscBoard":             e.HSCBoard,
			"hscPassingYear":       calendarYear(e.HSCPassingYear, civil),
			"hscTotalPercentile":   e.HSCTotalPercentile,
			"hscSciencePercentile": e.HSCSciencePercentile,
			"gujcetRollNo":         e.GujcetRollNo,
			"gujcetPassingYear":    calendarYear(e.GujcetPassingYear, civil),
			"gujcetMarks":          e.GujcetMarks,
			"branchPreferences":    strings.Join(rs.Preferences, ", "),
			"photo":                d.CandidatePhoto,
			"aadharCard":           d.AadharCard,
			"sscMarksheet":         d.SSCMarksheet,
			"hscMarksheet":         d.HSCMarksheet,
			"gujcetMarksheet":      d.GujcetMarksheet,
			"leavingCertificate":   d.LeavingCertificate,
			"submittedAt":          rs.SubmittedAt.In(civil).Format("02/01/2006, 3:04:05 pm"),
		})
	}
	return rows
}

func calendarYear(t time.Time, civil *time.Location) interface{} {
	if t.IsZero() {
		return ""
	}
	return t.In(civil).Year()
}
