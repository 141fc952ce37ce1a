package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_healthCheck(t *testing.T) {
	type fields struct {
		staters []NamedStater
	}
	type args struct {
		w http.ResponseWriter
		r *http.Request
	}
	tests := []struct {
		name            string
		fields          fields
		args            args
		wantCode        int
		wantContentType string
		wantBody        healthResponse
	}{
		{
			name:   "should report overall ready when every target is ready",
			fields: fields{staters: []NamedStater{&testStater{name: "db", state: "ready"}}},
			args: args{
				w: httptest.NewRecorder(),
				r: httptest.NewRequest(http.MethodGet, "/healthz", nil),
			},
			wantCode:        200,
			wantContentType: "application/json",
			wantBody: healthResponse{
				Status: READY,
				Targets: map[string]targetState{
					"db": {State: "ready"},
				},
			},
		},
		{
			name: "should report overall waiting while any target is pending",
			fields: fields{staters: []NamedStater{
				&testStater{name: "db", state: "ready"},
				&testStater{name: "bus", state: "could not connect to nats"},
			}},
			args: args{
				w: httptest.NewRecorder(),
				r: httptest.NewRequest(http.MethodGet, "/healthz", nil),
			},
			wantCode:        200,
			wantContentType: "application/json",
			wantBody: healthResponse{
				Status: WAITING,
				Targets: map[string]targetState{
					"db":  {State: "ready"},
					"bus": {State: "could not connect to nats"},
				},
			},
		},
		{
			name:   "should report overall ready when there are no targets",
			fields: fields{},
			args: args{
				w: httptest.NewRecorder(),
				r: httptest.NewRequest(http.MethodGet, "/healthz", nil),
			},
			wantCode:        200,
			wantContentType: "application/json",
			wantBody: healthResponse{
				Status:  READY,
				Targets: map[string]targetState{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			healthCheck := healthCheck(tt.fields.staters...)
			healthCheck(tt.args.w, tt.args.r)
			rec := tt.args.w.(*httptest.ResponseRecorder)
			require.Equal(t, tt.wantCode, rec.Code)
			require.Equal(t, tt.wantContentType, rec.Header().Get("Content-Type"))
			gotBody := healthResponse{}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&gotBody))
			require.Equal(t, tt.wantBody, gotBody)
		})
	}
}
