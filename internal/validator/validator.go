// Package validator filters candidate gamertags down to the ones the
// reservation API can accept
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/berckan/gamertag/internal/models"
)

var gamertagPattern = regexp.MustCompile(`^[A-Za-z0-9 ]+$`)

// Rules are applied in order and stop at the first violation, so a
// candidate breaking several of them is rejected once
var rules = []validation.Rule{
	validation.Required,
	validation.Length(0, models.MaxGamertagLength),
	validation.Match(gamertagPattern),
}

// Check reports why a single gamertag is invalid, or nil when it is valid
func Check(gamertag string) error {
	return validation.Validate(gamertag, rules...)
}

// Validate returns the gamertags meeting the length and character set
// constraints, in their original order, along with one Rejection for every
// entry that was dropped. The input slice is not modified
func Validate(gamertags []string) ([]string, []models.Rejection) {
	valid := make([]string, 0, len(gamertags))
	var rejected []models.Rejection

	for _, gamertag := range gamertags {
		if err := Check(gamertag); err != nil {
			rejected = append(rejected, models.Rejection{
				Gamertag: gamertag,
				Reason:   reason(gamertag, err),
				Err:      err,
			})
			continue
		}
		valid = append(valid, gamertag)
	}

	return valid, rejected
}

func reason(gamertag string, err error) string {
	var verr validation.Error
	if !errors.As(err, &verr) {
		return err.Error()
	}
	switch verr.Code() {
	case validation.ErrRequired.Code():
		return "empty gamertag"
	case validation.ErrLengthTooLong.Code():
		return fmt.Sprintf("length %d when maximum %d", utf8.RuneCountInString(gamertag), models.MaxGamertagLength)
	case validation.ErrMatchInvalid.Code():
		return "contains invalid characters"
	default:
		return verr.Error()
	}
}
