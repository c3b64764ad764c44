package sicetac

import (
	"fmt"
	"strings"

	"cotizador-platform/lib/models"
)

// DefaultVariables is the field list requested from RNDC when the query does
// not override it.
var DefaultVariables = []string{
	"RUTA",
	"NOMBREUNIDADTRANSPORTE",
	"NOMBRETIPOCARGA",
	"NOMBRERUTA",
	"VALOR",
	"VALORTONELADA",
	"VALORHORA",
	"DISTANCIA",
}

var (
	escaper   = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	unescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&quot;", `"`, "&amp;", "&")
)

// EscapeDocument entity-escapes an inner business document so it can travel
// as the text content of the SOAP Request element. The gateway expects
// escaped text, not nested markup.
func EscapeDocument(doc string) string {
	return escaper.Replace(doc)
}

// UnescapeDocument reverses EscapeDocument exactly.
func UnescapeDocument(doc string) string {
	return unescaper.Replace(doc)
}

// buildDocument renders the inner RNDC business document for a quote query.
func (c *Client) buildDocument(query models.QuoteQuery) string {
	variables := query.Variables
	if len(variables) == 0 {
		variables = DefaultVariables
	}

	lines := []string{
		fmt.Sprintf("<NUMNITEMPRESATRANSPORTE>%s</NUMNITEMPRESATRANSPORTE>", c.cfg.CompanyNIT),
		fmt.Sprintf("<PERIODO>%s</PERIODO>", query.Period),
		fmt.Sprintf("<CONFIGURACION>%s</CONFIGURACION>", query.Configuration),
		fmt.Sprintf("<ORIGEN>%s</ORIGEN>", query.Origin),
		fmt.Sprintf("<DESTINO>%s</DESTINO>", query.Destination),
	}
	if query.UnitType != "" {
		lines = append(lines, fmt.Sprintf("<NOMBREUNIDADTRANSPORTE>%s</NOMBREUNIDADTRANSPORTE>", strings.ToUpper(query.UnitType)))
	}
	if query.CargoType != "" {
		lines = append(lines, fmt.Sprintf("<NOMBRETIPOCARGA>%s</NOMBRETIPOCARGA>", strings.ToUpper(query.CargoType)))
	}

	return fmt.Sprintf(`<?xml version='1.0' encoding='ISO-8859-1' ?>
<root>
  <acceso>
    <username>%s</username>
    <password>%s</password>
  </acceso>
  <solicitud>
    <tipo>1</tipo>
    <procesoid>26</procesoid>
  </solicitud>
  <variables>
    %s
  </variables>
  <documento>
    %s
  </documento>
</root>`, c.cfg.Username, c.cfg.Password, strings.Join(variables, ", "), strings.Join(lines, "\n    "))
}

// buildPayload wraps the escaped business document in the SOAP 1.1 RPC
// envelope the BPMServices gateway expects.
func (c *Client) buildPayload(query models.QuoteQuery) string {
	escaped := EscapeDocument(c.buildDocument(query))
	return fmt.Sprintf(`<?xml version="1.0" encoding="ISO-8859-1"?>
<SOAP-ENV:Envelope
    xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"
    xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
    xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <SOAP-ENV:Body SOAP-ENV:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">
    <NS1:AtenderMensajeRNDC xmlns:NS1="urn:BPMServicesIntf-IBPMServices">
      <Request xsi:type="xsd:string">%s</Request>
    </NS1:AtenderMensajeRNDC>
  </SOAP-ENV:Body>
</SOAP-ENV:Envelope>`, escaped)
}
