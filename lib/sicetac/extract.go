package sicetac

import (
	"strconv"

	"cotizador-platform/lib/models"
)

// toFloat parses an upstream numeric field, returning nil for absent or
// unparsable values. Absence is never an error for optional fields.
func toFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

// extractQuotes converts wire documents into quote results, preserving the
// upstream order. Documents without a parsable VALOR are not priced rows and
// are skipped; an empty outcome is reported as not found with a message
// distinct from the zero-documents case.
func extractQuotes(documents []WireDocument, query models.QuoteQuery) ([]models.QuoteResult, error) {
	results := make([]models.QuoteResult, 0, len(documents))
	for _, doc := range documents {
		mobilization := toFloat(doc["valor"])
		if mobilization == nil {
			continue
		}

		hourValue := toFloat(doc["valorhora"])
		minimumPayable := *mobilization
		if hourValue != nil {
			minimumPayable += *hourValue * query.LogisticsHours
		}

		results = append(results, models.QuoteResult{
			RouteCode:         doc["ruta"],
			RouteName:         doc["nombreruta"],
			UnitType:          doc["nombreunidadtransporte"],
			CargoType:         doc["nombretipocarga"],
			MobilizationValue: *mobilization,
			TonValue:          toFloat(doc["valortonelada"]),
			HourValue:         hourValue,
			DistanceKm:        toFloat(doc["distancia"]),
			MinimumPayable:    minimumPayable,
		})
	}

	if len(results) == 0 {
		return nil, &NotFoundError{Reason: "Sicetac did not return monetary values for the requested parameters"}
	}

	return results, nil
}
