package service

import (
	"errors"
	"net/http"
	"testing"

	"cotizador-platform/lib/sicetac"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "upstream business error carries verbatim message",
			err:        &sicetac.UpstreamBusinessError{Message: "NO SE ENCONTRO INFORMACION"},
			wantStatus: http.StatusNotFound,
			wantDetail: "NO SE ENCONTRO INFORMACION",
		},
		{
			name:       "no priced rows",
			err:        &sicetac.NotFoundError{Reason: "Sicetac did not return monetary values for the requested parameters"},
			wantStatus: http.StatusNotFound,
			wantDetail: "Sicetac did not return monetary values for the requested parameters",
		},
		{
			name:       "transport failure is bad gateway",
			err:        &sicetac.TransportError{Attempts: 3, Err: errors.New("connection refused")},
			wantStatus: http.StatusBadGateway,
			wantDetail: "Sicetac service is unreachable",
		},
		{
			name:       "protocol failure is bad gateway",
			err:        &sicetac.ProtocolError{Reason: "failed to parse upstream payload"},
			wantStatus: http.StatusBadGateway,
			wantDetail: "Failed to parse response from Sicetac",
		},
		{
			name:       "unknown error is internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "boom",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, detail := statusForError(tc.err)
			if status != tc.wantStatus {
				t.Errorf("status = %d, want %d", status, tc.wantStatus)
			}
			if detail != tc.wantDetail {
				t.Errorf("detail = %q, want %q", detail, tc.wantDetail)
			}
		})
	}
}
