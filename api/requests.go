package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"betledger/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// timeLayouts are tried in order when a date arrives as text
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use RFC3339 or YYYY-MM-DD", value)
}

// flexibleTime accepts every layout in timeLayouts
type flexibleTime struct {
	time.Time
}

func (t *flexibleTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string")
	}
	parsed, err := parseTime(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t *flexibleTime) ptr() *time.Time {
	if t == nil {
		return nil
	}
	value := t.Time
	return &value
}

type createBankrollRequest struct {
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Currency       string          `json:"currency"`
}

type updateBankrollRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"isActive"`
}

type balanceRequest struct {
	Operation models.BalanceOperation `json:"operation"`
	Amount    decimal.Decimal         `json:"amount"`
}

type createBetRequest struct {
	BankrollID  string          `json:"bankrollId"`
	Sport       models.Sport    `json:"sport"`
	Event       string          `json:"event"`
	Competition *string         `json:"competition"`
	Market      string          `json:"market"`
	Selection   string          `json:"selection"`
	Odds        decimal.Decimal `json:"odds"`
	Stake       decimal.Decimal `json:"stake"`
	EventDate   *flexibleTime   `json:"eventDate"`
	Bookmaker   *string         `json:"bookmaker"`
	Notes       *string         `json:"notes"`
	Tags        []string        `json:"tags"`
}

func (req createBetRequest) toInput() (models.CreateBetInput, error) {
	bankrollID, err := uuid.Parse(strings.TrimSpace(req.BankrollID))
	if err != nil {
		return models.CreateBetInput{}, fmt.Errorf("bankrollId must be a valid id")
	}

	input := models.CreateBetInput{
		BankrollID:  bankrollID,
		Sport:       req.Sport,
		Event:       req.Event,
		Competition: req.Competition,
		Market:      req.Market,
		Selection:   req.Selection,
		Odds:        req.Odds,
		Stake:       req.Stake,
		Bookmaker:   req.Bookmaker,
		Notes:       req.Notes,
		Tags:        req.Tags,
	}
	if req.EventDate != nil {
		input.EventDate = req.EventDate.Time
	}
	return input, nil
}

type updateBetRequest struct {
	Sport       *models.Sport    `json:"sport"`
	Event       *string          `json:"event"`
	Competition *string          `json:"competition"`
	Market      *string          `json:"market"`
	Selection   *string          `json:"selection"`
	Odds        *decimal.Decimal `json:"odds"`
	Stake       *decimal.Decimal `json:"stake"`
	EventDate   *flexibleTime    `json:"eventDate"`
	Bookmaker   *string          `json:"bookmaker"`
	Notes       *string          `json:"notes"`
	Tags        []string         `json:"tags"`
}

func (req updateBetRequest) toInput() models.UpdateBetInput {
	return models.UpdateBetInput{
		Sport:       req.Sport,
		Event:       req.Event,
		Competition: req.Competition,
		Market:      req.Market,
		Selection:   req.Selection,
		Odds:        req.Odds,
		Stake:       req.Stake,
		EventDate:   req.EventDate.ptr(),
		Bookmaker:   req.Bookmaker,
		Notes:       req.Notes,
		Tags:        req.Tags,
	}
}

type settleBetRequest struct {
	Status models.BetStatus  `json:"status"`
	Result *models.BetResult `json:"result"`
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("id must be a valid id")
	}
	return id, nil
}

// queryInt reads an optional integer parameter; absent means 0
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return value, nil
}

func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := parseTime(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return &t, nil
}

// betFilterFromQuery reads the bet listing filters
func betFilterFromQuery(r *http.Request) (models.BetFilter, error) {
	var filter models.BetFilter
	query := r.URL.Query()

	if raw := strings.TrimSpace(query.Get("bankrollId")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, fmt.Errorf("bankrollId must be a valid id")
		}
		filter.BankrollID = &id
	}
	if raw := strings.TrimSpace(query.Get("sport")); raw != "" {
		sport := models.Sport(strings.ToUpper(raw))
		filter.Sport = &sport
	}
	if raw := strings.TrimSpace(query.Get("status")); raw != "" {
		status := models.BetStatus(strings.ToUpper(raw))
		filter.Status = &status
	}

	var err error
	if filter.From, err = queryTime(r, "startDate"); err != nil {
		return filter, err
	}
	if filter.To, err = queryTime(r, "endDate"); err != nil {
		return filter, err
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil {
		return filter, err
	}
	return filter, nil
}
