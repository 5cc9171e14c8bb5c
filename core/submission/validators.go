package submission

import (
	"github.com/go-playground/validator/v10"

	"github.com/praveshhq/pravesh/core"
)

var (
	branchCodeTag  = "branchcode"
	branchCodeText = "invalid branch code"

	prefChainTag  = "prefchain"
	prefChainText = "a preference may only be set when the previous one is set"

	prefUniqueTag  = "prefunique"
	prefUniqueText = "branch preferences must be unique"
)

func init() {
	_ = core.Validate.RegisterValidation(branchCodeTag, branchCodeValidation)
	core.RegisterCustomTranslation(branchCodeTag, branchCodeText)

	core.Validate.RegisterStructValidation(branchPreferencesStructValidation, BranchPreferences{})
	core.RegisterCustomTranslation(prefChainTag, prefChainText)
	core.RegisterCustomTranslation(prefUniqueTag, prefUniqueText)
}

// branchCodeValidation checks that the value is one of BranchList.
func branchCodeValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, code := range BranchList {
		if val == code {
			return true
		}
	}
	return false
}

// branchPreferencesStructValidation enforces the chain invariants:
// no gaps (slot k set only when slot k-1 is set) and no duplicates.
func branchPreferencesStructValidation(sl validator.StructLevel) {
	bp, ok := sl.Current().Interface().(BranchPreferences)
	if !ok {
		return
	}
	slots := bp.slots()
	jsonNames := []string{"pref1", "pref2", "pref3", "pref4", "pref5", "pref6", "pref7"}
	structNames := []string{"Pref1", "Pref2", "Pref3", "Pref4", "Pref5", "Pref6", "Pref7"}

	for k := 1; k < len(slots); k++ {
		if slots[k] != "" && slots[k-1] == "" {
			sl.ReportError(slots[k-1], jsonNames[k-1], structNames[k-1], prefChainTag, "")
		}
	}

	seen := make(map[string]bool, len(slots))
	for k, slot := range slots {
		if slot == "" {
			continue
		}
		if seen[slot] {
			sl.ReportError(slot, jsonNames[k], structNames[k], prefUniqueTag, "")
		}
		seen[slot] = true
	}
}
