package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDimensionsClient(t *testing.T) {
	t.Parallel()

	t.Run("list", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/Production/api/v2.0/companies(C1)/dimensions", request.URL.Path)
			assert.Equal(t, "contains(code,'DEP')", request.URL.Query().Get("$filter"))

			writeJSON(writer, http.StatusOK, listBody([]map[string]interface{}{
				{"id": "D1", "code": "DEPARTMENT", "displayName": "Department"},
			}))
		})

		dimensions, err := client.Dimensions().List(context.Background(), testScope,
			bc.NewQueryParams().WithFilter(bc.FilterContains, "code", "DEP"))
		require.NoError(t, err)
		require.Len(t, dimensions, 1)
		assert.Equal(t, "Department", dimensions[0].DisplayName)
	})

	t.Run("add to journal line", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "/Production/api/v2.0/companies(C1)/journalLines(L1)/dimensionSetLines", request.URL.Path)

			var body map[string]string
			assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, map[string]string{"id": "D1", "valueCode": "SALES"}, body)

			writeJSON(writer, http.StatusCreated, map[string]string{"id": "D1", "valueCode": "SALES"})
		})

		err := client.Dimensions().AddToJournalLine(context.Background(), testScope, "L1",
			&bc.DimensionSetLineRequest{ID: "D1", ValueCode: "SALES"})
		require.NoError(t, err)
	})

	t.Run("add rejected", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			writeODataError(writer, http.StatusBadRequest, "BadRequest", "Dimension value does not exist")
		})

		err := client.Dimensions().AddToJournalLine(context.Background(), testScope, "L1",
			&bc.DimensionSetLineRequest{ID: "D1", ValueCode: "NOPE"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "adding dimension to journal line")
	})
}
