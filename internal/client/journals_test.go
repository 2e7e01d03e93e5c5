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

func TestJournalsClient_List(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/Sandbox/api/v2.0/companies(C1)/journals", request.URL.Path)

		writeJSON(writer, http.StatusOK, listBody([]map[string]interface{}{
			{"id": "J1", "code": "DEFAULT", "displayName": "Default Journal Batch"},
		}))
	})

	journals, err := client.Journals().List(context.Background(), bc.Scope{Environment: "Sandbox", CompanyID: "C1"}, nil)
	require.NoError(t, err)
	require.Len(t, journals, 1)
	assert.Equal(t, "DEFAULT", journals[0].Code)
}

//nolint:funlen // Test functions can be longer for detailed testing
func TestJournalLinesClient(t *testing.T) {
	t.Parallel()

	t.Run("list with dimension lines", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/Production/api/v2.0/companies(C1)/journals(J1)/journalLines", request.URL.Path)

			writeJSON(writer, http.StatusOK, listBody([]map[string]interface{}{
				{
					"id":                     "L1",
					"journalId":              "J1",
					"lineNumber":             10000,
					"amount":                 -250.75,
					"externalDocumentNumber": nil,
					"dimensionLines": []map[string]interface{}{
						{"id": "D1", "code": "DEPARTMENT", "valueCode": "SALES"},
					},
				},
			}))
		})

		lines, err := client.JournalLines().List(context.Background(), testScope, "J1", nil)
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, 10000, lines[0].LineNumber)
		assert.InDelta(t, -250.75, lines[0].Amount, 0.001)
		assert.Nil(t, lines[0].ExternalDocumentNumber)
		require.Len(t, lines[0].DimensionLines, 1)
		assert.Equal(t, "SALES", lines[0].DimensionLines[0].ValueCode)
	})

	t.Run("create sets journal id", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "/Production/api/v2.0/companies(C1)/journals(J1)/journalLines", request.URL.Path)

			var body map[string]interface{}
			assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, "J1", body["journalId"])
			assert.Equal(t, "Office supplies", body["description"])
			assert.Equal(t, "2024-01-31", body["postingDate"])
			assert.InDelta(t, 99.95, body["amount"], 0.001)

			writeJSON(writer, http.StatusCreated, map[string]interface{}{
				"id":          "L2",
				"journalId":   "J1",
				"description": "Office supplies",
				"amount":      99.95,
			})
		})

		request := &bc.JournalLineCreateRequest{
			Amount:        99.95,
			Description:   "Office supplies",
			PostingDate:   "2024-01-31",
			AccountNumber: "60100",
		}

		line, err := client.JournalLines().Create(context.Background(), testScope, "J1", request)
		require.NoError(t, err)
		assert.Equal(t, "L2", line.ID)
		assert.Empty(t, request.JournalID)
	})

	t.Run("create rejected", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			writeODataError(writer, http.StatusBadRequest, "Internal_ValidationError", "Account No. must have a value")
		})

		line, err := client.JournalLines().Create(context.Background(), testScope, "J1", &bc.JournalLineCreateRequest{})
		require.Error(t, err)
		assert.Nil(t, line)

		var errResp *bc.ResponseError
		require.ErrorAs(t, err, &errResp)
		assert.Equal(t, "Internal_ValidationError", errResp.Err.Code)
	})

	t.Run("journal id required", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			t.Error("unexpected request")
		})

		_, err := client.JournalLines().List(context.Background(), testScope, "", nil)
		require.ErrorIs(t, err, bc.ErrIDRequired)
	})
}
