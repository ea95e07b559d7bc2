package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diwise/entity-extensions/internal/pkg/application/readmodel"
	"github.com/diwise/entity-extensions/pkg/datamodels/orders"
	"github.com/go-chi/chi/v5"
	"github.com/matryer/is"
)

type querierMock struct {
	QueryEntitiesFunc func(ctx context.Context, entityKind string) (*readmodel.QueryEntitiesResult, error)
}

func (m *querierMock) QueryEntities(ctx context.Context, entityKind string) (*readmodel.QueryEntitiesResult, error) {
	return m.QueryEntitiesFunc(ctx, entityKind)
}

func TestQueryEntities(t *testing.T) {
	is, ts, _ := setupTest(t)
	defer ts.Close()

	resp, body := newGetRequest(is, ts, "/api/v1/entities?kind=order")

	is.Equal(resp.StatusCode, http.StatusOK) // Check status code

	response := struct {
		TotalCount int              `json:"totalCount"`
		Entities   []map[string]any `json:"entities"`
	}{}
	is.NoErr(json.Unmarshal([]byte(body), &response))
	is.Equal(response.TotalCount, 1)
	is.Equal(len(response.Entities), 1)

	attributes, ok := response.Entities[0]["extension_attributes"].(map[string]any)
	is.True(ok)
	is.Equal(attributes["status_note"], "expedited")
}

func TestQueryEntitiesWithoutKindReturnsBadRequest(t *testing.T) {
	is, ts, _ := setupTest(t)
	defer ts.Close()

	resp, _ := newGetRequest(is, ts, "/api/v1/entities")

	is.Equal(resp.StatusCode, http.StatusBadRequest) // Check status code
}

func TestQueryEntitiesCanHandleUnknownKinds(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	app.QueryEntitiesFunc = func(ctx context.Context, entityKind string) (*readmodel.QueryEntitiesResult, error) {
		return nil, readmodel.NewUnknownEntityKindError(entityKind)
	}

	resp, _ := newGetRequest(is, ts, "/api/v1/entities?kind=invoice")

	is.Equal(resp.StatusCode, http.StatusNotFound) // Check status code
}

func TestQueryEntitiesCanHandleInternalErrors(t *testing.T) {
	is, ts, app := setupTest(t)
	defer ts.Close()

	app.QueryEntitiesFunc = func(ctx context.Context, entityKind string) (*readmodel.QueryEntitiesResult, error) {
		return nil, io.ErrUnexpectedEOF
	}

	resp, _ := newGetRequest(is, ts, "/api/v1/entities?kind=order")

	is.Equal(resp.StatusCode, http.StatusInternalServerError) // Check status code
}

func TestNonGetRequestsAreDenied(t *testing.T) {
	is, ts, _ := setupTest(t)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/v1/entities?kind=order", "application/json", bytes.NewBufferString("{}"))
	is.NoErr(err)
	defer resp.Body.Close()

	is.Equal(resp.StatusCode, http.StatusMethodNotAllowed) // Check status code
}

func newGetRequest(is *is.I, ts *httptest.Server, path string) (*http.Response, string) {
	resp, err := http.Get(ts.URL + path)
	is.NoErr(err) // http request failed
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	is.NoErr(err) // failed to read response body

	return resp, string(respBody)
}

func setupTest(t *testing.T) (*is.I, *httptest.Server, *querierMock) {
	is := is.New(t)
	r := chi.NewRouter()
	ts := httptest.NewServer(r)

	app := &querierMock{
		QueryEntitiesFunc: func(ctx context.Context, entityKind string) (*readmodel.QueryEntitiesResult, error) {
			order := orders.New("order-1", "100000001", "processing", 249.50)

			return &readmodel.QueryEntitiesResult{
				Entities: []readmodel.AugmentedEntity{
					readmodel.NewAugmentedEntity(order, map[string]any{"status_note": "expedited"}),
				},
				TotalCount: 1,
			}, nil
		},
	}

	err := RegisterHandlers(context.Background(), r, bytes.NewBufferString(allowAllPolicy), app)
	is.NoErr(err)

	return is, ts, app
}

const allowAllPolicy string = `package example.authz

default allow = false

allow {
    input.method == "GET"
}
`
