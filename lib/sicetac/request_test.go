package sicetac

import (
	"strings"
	"testing"

	"cotizador-platform/lib/models"
)

func testClient() *Client {
	return NewClient(Config{
		Endpoint:   "http://rndcws.example.test/soap/IBPMServices",
		Username:   "usuario",
		Password:   "clave",
		CompanyNIT: "900559843-7",
	})
}

func testQuery() models.QuoteQuery {
	return models.QuoteQuery{
		Period:        "202501",
		Configuration: "3S3",
		Origin:        "11001000",
		Destination:   "05001000",
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "plain document", doc: "<root><documento><PERIODO>202501</PERIODO></documento></root>"},
		{name: "quotes and ampersands", doc: `<root attr="v">A &amp; B "quoted" <x/></root>`},
		{name: "already escaped text", doc: "&lt;root&gt; &amp;amp; &quot;x&quot;"},
		{name: "empty", doc: ""},
		{name: "accented text", doc: "<NOMBRETIPOCARGA>GRANEL SÓLIDO</NOMBRETIPOCARGA>"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			escaped := EscapeDocument(tc.doc)
			if strings.ContainsAny(escaped, "<>\"") {
				t.Fatalf("escaped form still contains markup characters: %q", escaped)
			}
			if got := UnescapeDocument(escaped); got != tc.doc {
				t.Fatalf("round trip mismatch:\n want %q\n got  %q", tc.doc, got)
			}
		})
	}
}

func TestBuildDocument(t *testing.T) {
	c := testClient()

	t.Run("mandatory fields", func(t *testing.T) {
		doc := c.buildDocument(testQuery())
		for _, want := range []string{
			"<NUMNITEMPRESATRANSPORTE>900559843-7</NUMNITEMPRESATRANSPORTE>",
			"<PERIODO>202501</PERIODO>",
			"<CONFIGURACION>3S3</CONFIGURACION>",
			"<ORIGEN>11001000</ORIGEN>",
			"<DESTINO>05001000</DESTINO>",
			"<tipo>1</tipo>",
			"<procesoid>26</procesoid>",
			"<username>usuario</username>",
			"<password>clave</password>",
		} {
			if !strings.Contains(doc, want) {
				t.Errorf("document missing %s", want)
			}
		}
		if strings.Contains(doc, "<NOMBREUNIDADTRANSPORTE>") {
			t.Error("unit filter present without being requested")
		}
	})

	t.Run("optional filters upper-cased", func(t *testing.T) {
		q := testQuery()
		q.UnitType = "estacas"
		q.CargoType = "general"
		doc := c.buildDocument(q)
		if !strings.Contains(doc, "<NOMBREUNIDADTRANSPORTE>ESTACAS</NOMBREUNIDADTRANSPORTE>") {
			t.Error("unit filter missing or not upper-cased")
		}
		if !strings.Contains(doc, "<NOMBRETIPOCARGA>GENERAL</NOMBRETIPOCARGA>") {
			t.Error("cargo filter missing or not upper-cased")
		}
	})

	t.Run("default variables", func(t *testing.T) {
		doc := c.buildDocument(testQuery())
		if !strings.Contains(doc, strings.Join(DefaultVariables, ", ")) {
			t.Error("default variable list not in document")
		}
	})

	t.Run("variables override", func(t *testing.T) {
		q := testQuery()
		q.Variables = []string{"RUTA", "VALOR"}
		doc := c.buildDocument(q)
		if !strings.Contains(doc, "RUTA, VALOR") {
			t.Error("variable override not honored")
		}
		if strings.Contains(doc, "VALORTONELADA") {
			t.Error("default variables leaked into overridden list")
		}
	})
}

func TestBuildPayloadEnvelope(t *testing.T) {
	c := testClient()
	payload := c.buildPayload(testQuery())

	for _, want := range []string{
		`xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"`,
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"`,
		`xmlns:xsd="http://www.w3.org/2001/XMLSchema"`,
		`<NS1:AtenderMensajeRNDC xmlns:NS1="urn:BPMServicesIntf-IBPMServices">`,
		`<Request xsi:type="xsd:string">`,
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %s", want)
		}
	}

	// The business document must arrive as escaped text, never nested markup.
	if strings.Contains(payload, "<root>") {
		t.Error("inner document embedded unescaped")
	}
	if !strings.Contains(payload, "&lt;root&gt;") {
		t.Error("escaped inner document not found in payload")
	}

	// The escaped section must reproduce the inner document exactly.
	start := strings.Index(payload, `<Request xsi:type="xsd:string">`) + len(`<Request xsi:type="xsd:string">`)
	end := strings.Index(payload, "</Request>")
	if start < 0 || end < 0 || end <= start {
		t.Fatal("Request element not found in payload")
	}
	if got := UnescapeDocument(payload[start:end]); got != c.buildDocument(testQuery()) {
		t.Error("unescaping the Request content does not reproduce the inner document")
	}
}
