package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/business/web/mid"
	"github.com/ardanlabs/ledger/foundation/validate"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp(handler web.Handler) *web.App {
	log := zap.NewNop().Sugar()

	app := web.NewApp(nil, mid.Logger(log), mid.Errors(log), mid.Metrics(), mid.Cors("*"), mid.Panics())
	app.Handle(http.MethodGet, "v1", "/test", handler)

	return app
}

func TestErrors(t *testing.T) {
	type table struct {
		name    string
		handler web.Handler
		status  int
		error   string
		fields  map[string]string
	}

	tt := []table{
		{
			name: "trusted",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return errs.NewTrusted(errors.New("no node"), http.StatusBadRequest)
			},
			status: http.StatusBadRequest,
			error:  "no node",
		},
		{
			name: "fields",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return validate.FieldErrors{{Field: "sender", Error: "sender is a required field"}}
			},
			status: http.StatusBadRequest,
			error:  "data validation error",
			fields: map[string]string{"sender": "sender is a required field"},
		},
		{
			name: "untrusted",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return errors.New("database exploded")
			},
			status: http.StatusInternalServerError,
			error:  http.StatusText(http.StatusInternalServerError),
		},
		{
			name: "panic",
			handler: func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				panic("boom")
			},
			status: http.StatusInternalServerError,
			error:  http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tst := range tt {
		t.Run(tst.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			newApp(tst.handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/test", nil))

			require.Equal(t, tst.status, w.Code)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

			var resp errs.Response
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tst.error, resp.Error)
			assert.Equal(t, tst.fields, resp.Fields)
		})
	}
}
