package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/validate"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle(t *testing.T) {
	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(nil, mw("app"))
	app.Handle(http.MethodGet, "v1", "/blocks/:index", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, v.TraceID)

		return web.Respond(ctx, w, map[string]string{"index": web.Param(r, "index")}, http.StatusOK)
	}, mw("route"))

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/blocks/7", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"index":"7"}`, w.Body.String())
	assert.Equal(t, []string{"app", "route"}, order)
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name *string `json:"name" validate:"required"`
	}

	var p payload
	err := web.Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"A"}`)), &p)
	require.NoError(t, err)
	assert.Equal(t, "A", *p.Name)

	err = web.Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)), &payload{})
	assert.True(t, validate.IsFieldErrors(err))

	err = web.Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`)), &payload{})
	require.Error(t, err)
	assert.False(t, validate.IsFieldErrors(err))
}

func TestShutdownError(t *testing.T) {
	assert.True(t, web.IsShutdown(web.NewShutdownError("integrity")))
	assert.False(t, web.IsShutdown(assert.AnError))
}
