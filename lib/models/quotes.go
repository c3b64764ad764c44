package models

import (
	"fmt"
	"strings"
	"time"
)

var allowedConfigurations = map[string]bool{
	"2": true, "3": true, "2S2": true, "2S3": true, "3S2": true, "3S3": true,
}

var allowedCargoTypes = map[string]bool{
	"GENERAL": true, "CONTENEDOR": true, "CARGA REFRIGERADA": true, "GRANEL SÓLIDO": true,
}

var allowedUnitTypes = map[string]bool{
	"ESTACAS": true, "TRAYLER": true, "TERMOKING": true,
}

// QuoteQuery describes one SICETAC rate lookup: a period, a truck
// configuration and a DIVIPOLA origin/destination pair, with optional cargo
// and unit filters.
type QuoteQuery struct {
	Period         string   `json:"period"`
	Configuration  string   `json:"configuration"`
	Origin         string   `json:"origin"`
	Destination    string   `json:"destination"`
	CargoType      string   `json:"cargo_type,omitempty"`
	UnitType       string   `json:"unit_type,omitempty"`
	LogisticsHours float64  `json:"logistics_hours"`
	Variables      []string `json:"variables,omitempty"`
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Validate normalises enum fields to upper case and checks the query against
// the value sets SICETAC accepts. The protocol client assumes a validated
// query, so every HTTP entry point must call this first.
func (q *QuoteQuery) Validate() error {
	if len(q.Period) != 6 || !isDigits(q.Period) {
		return fmt.Errorf("period must follow yyyymm format, got %q", q.Period)
	}

	q.Configuration = strings.ToUpper(q.Configuration)
	if !allowedConfigurations[q.Configuration] {
		return fmt.Errorf("configuration %q is not supported by Sicetac", q.Configuration)
	}

	for _, code := range []string{q.Origin, q.Destination} {
		if len(code) != 8 || !isDigits(code) || !strings.HasSuffix(code, "000") {
			return fmt.Errorf("DIVIPOLA codes must be 8 digits ending in 000, got %q", code)
		}
	}

	if q.CargoType != "" {
		q.CargoType = strings.ToUpper(q.CargoType)
		if !allowedCargoTypes[q.CargoType] {
			return fmt.Errorf("cargo type %q is not supported by Sicetac", q.CargoType)
		}
	}

	if q.UnitType != "" {
		q.UnitType = strings.ToUpper(q.UnitType)
		if !allowedUnitTypes[q.UnitType] {
			return fmt.Errorf("unit type %q is not supported by Sicetac", q.UnitType)
		}
	}

	if q.LogisticsHours < 0 {
		return fmt.Errorf("logistics hours must be non-negative, got %v", q.LogisticsHours)
	}

	for i, v := range q.Variables {
		q.Variables[i] = strings.ToUpper(strings.TrimSpace(v))
	}

	return nil
}

// QuoteResult is one priced row from SICETAC. MobilizationValue is the only
// field the upstream guarantees; the remaining numerics are nil when the
// service omits them or returns something unparsable.
type QuoteResult struct {
	RouteCode         string   `json:"route_code,omitempty"`
	RouteName         string   `json:"route_name,omitempty"`
	UnitType          string   `json:"unit_type,omitempty"`
	CargoType         string   `json:"cargo_type,omitempty"`
	MobilizationValue float64  `json:"mobilization_value"`
	TonValue          *float64 `json:"ton_value,omitempty"`
	HourValue         *float64 `json:"hour_value,omitempty"`
	DistanceKm        *float64 `json:"distance_km,omitempty"`
	MinimumPayable    float64  `json:"minimum_payable"`
}

type QuoteResponse struct {
	Request QuoteQuery    `json:"request"`
	Quotes  []QuoteResult `json:"quotes"`
}

// Quotation is a persisted quote fetch, kept so users can revisit and
// annotate past lookups.
type Quotation struct {
	ID                 string        `json:"id"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	Period             string        `json:"period"`
	Configuration      string        `json:"configuration"`
	OriginCode         string        `json:"origin_code"`
	DestinationCode    string        `json:"destination_code"`
	CargoType          string        `json:"cargo_type,omitempty"`
	UnitType           string        `json:"unit_type,omitempty"`
	LogisticsHours     float64       `json:"logistics_hours"`
	Quotes             []QuoteResult `json:"quotes"`
	UserID             string        `json:"user_id,omitempty"`
	CompanyName        string        `json:"company_name,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	Status             string        `json:"status"`
	TotalCost          *float64      `json:"total_cost,omitempty"`
	SelectedQuoteIndex *int          `json:"selected_quote_index,omitempty"`
}
