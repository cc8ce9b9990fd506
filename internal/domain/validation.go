package domain

import "github.com/bmstu-itstech/botarena/pkg/validator"

// ValidateTeamName enforces the spec's bot-identity rule: a non-empty,
// case-sensitive string. Uniqueness among a roster is the caller's
// responsibility (it depends on which roster is being validated against).
func ValidateTeamName(name string) error {
	return validator.ValidateRequired("teamName", name)
}

// ValidateRoster checks that every name is valid and that no two bots in
// the roster share a TeamName.
func ValidateRoster(names []string) error {
	var errs validator.ValidationErrors
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if err := ValidateTeamName(n); err != nil {
			errs.Add("teamName", err.Error())
			continue
		}
		if seen[n] {
			errs.Add("teamName", "duplicate team name: "+n)
			continue
		}
		seen[n] = true
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}
