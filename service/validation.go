package service

import (
	"strings"
	"unicode/utf8"

	"betledger/models"

	"github.com/shopspring/decimal"
)

const (
	minBankrollNameLength = 3
	maxBankrollNameLength = 100
	minEventLength        = 3
	minMarketLength       = 3
	minSelectionLength    = 1
	maxTextLength         = 255
	maxNotesLength        = 2000
	maxTags               = 20

	defaultPageLimit = 50
	maxPageLimit     = 100

	// one leap year of daily buckets
	maxDateRangeDays = 366
)

var (
	maxInitialBalance = decimal.NewFromInt(1_000_000_000)
	maxBalanceAmount  = decimal.NewFromInt(1_000_000_000)
	maxStake          = decimal.NewFromInt(1_000_000)
	minOdds           = decimal.RequireFromString("1.01")
	maxOdds           = decimal.NewFromInt(1000)
)

// hasAtMostPlaces reports whether d survives rounding to the given decimal places
func hasAtMostPlaces(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

func validateMoney(field string, amount, max decimal.Decimal) error {
	if !amount.IsPositive() {
		return validationError("%s must be greater than zero", field)
	}
	if amount.GreaterThan(max) {
		return validationError("%s must not exceed %s", field, max.String())
	}
	if !hasAtMostPlaces(amount, 2) {
		return validationError("%s must have at most 2 decimal places", field)
	}
	return nil
}

func validateText(field, value string, min, max int) error {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	if n < min {
		if min == 1 {
			return validationError("%s is required", field)
		}
		return validationError("%s must be at least %d characters", field, min)
	}
	if n > max {
		return validationError("%s must be at most %d characters", field, max)
	}
	return nil
}

func validateOptionalText(field string, value *string, max int) error {
	if value == nil {
		return nil
	}
	if utf8.RuneCountInString(*value) > max {
		return validationError("%s must be at most %d characters", field, max)
	}
	return nil
}

func validateBankrollName(name string) error {
	return validateText("name", name, minBankrollNameLength, maxBankrollNameLength)
}

func validateCurrency(currency string) error {
	if len(currency) != 3 {
		return validationError("currency must be a 3-letter code")
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return validationError("currency must be a 3-letter code")
		}
	}
	return nil
}

func validateOdds(odds decimal.Decimal) error {
	if odds.LessThan(minOdds) || odds.GreaterThan(maxOdds) {
		return validationError("odds must be between %s and %s", minOdds.String(), maxOdds.String())
	}
	if !hasAtMostPlaces(odds, 3) {
		return validationError("odds must have at most 3 decimal places")
	}
	return nil
}

func validateTags(tags []string) error {
	if len(tags) > maxTags {
		return validationError("at most %d tags are allowed", maxTags)
	}
	for _, tag := range tags {
		if err := validateText("tag", tag, 1, 50); err != nil {
			return err
		}
	}
	return nil
}

// normalizeCreateBankroll trims the input and applies the default currency
func normalizeCreateBankroll(input models.CreateBankrollInput, defaultCurrency string) (models.CreateBankrollInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	if input.Currency == "" {
		input.Currency = defaultCurrency
	}

	if err := validateBankrollName(input.Name); err != nil {
		return input, err
	}
	if err := validateMoney("initial balance", input.InitialBalance, maxInitialBalance); err != nil {
		return input, err
	}
	if err := validateCurrency(input.Currency); err != nil {
		return input, err
	}
	return input, nil
}

// validateBetFields checks a complete bet against the field rules shared by create and update
func validateBetFields(bet *models.Bet) error {
	if !bet.Sport.IsValid() {
		return validationError("sport %q is not supported", bet.Sport)
	}
	if err := validateText("event", bet.Event, minEventLength, maxTextLength); err != nil {
		return err
	}
	if err := validateOptionalText("competition", bet.Competition, maxTextLength); err != nil {
		return err
	}
	if err := validateText("market", bet.Market, minMarketLength, maxTextLength); err != nil {
		return err
	}
	if err := validateText("selection", bet.Selection, minSelectionLength, maxTextLength); err != nil {
		return err
	}
	if err := validateOdds(bet.Odds); err != nil {
		return err
	}
	if err := validateMoney("stake", bet.Stake, maxStake); err != nil {
		return err
	}
	if bet.EventDate.IsZero() {
		return validationError("event date is required")
	}
	if err := validateOptionalText("bookmaker", bet.Bookmaker, maxTextLength); err != nil {
		return err
	}
	if err := validateOptionalText("notes", bet.Notes, maxNotesLength); err != nil {
		return err
	}
	return validateTags(bet.Tags)
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// normalizeBetFilter applies pagination defaults and bounds
func normalizeBetFilter(filter models.BetFilter) (models.BetFilter, error) {
	if filter.Limit == 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit < 1 || filter.Limit > maxPageLimit {
		return filter, validationError("limit must be between 1 and %d", maxPageLimit)
	}
	if filter.Offset < 0 {
		return filter, validationError("offset must not be negative")
	}
	if filter.Sport != nil && !filter.Sport.IsValid() {
		return filter, validationError("sport %q is not supported", *filter.Sport)
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return filter, validationError("status %q is not supported", *filter.Status)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, validationError("date range end must not be before its start")
	}
	return filter, nil
}

func normalizeListLimit(limit int) (int, error) {
	if limit == 0 {
		return 10, nil
	}
	if limit < 1 || limit > maxPageLimit {
		return 0, validationError("limit must be between 1 and %d", maxPageLimit)
	}
	return limit, nil
}
