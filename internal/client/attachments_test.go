package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
}

type attachmentServer struct {
	mu            sync.Mutex
	requests      []recordedRequest
	createStatus  int
	createBody    interface{}
	contentStatus int
}

func (s *attachmentServer) record(request *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, recordedRequest{method: request.Method, path: request.URL.Path})
}

func (s *attachmentServer) count(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0

	for _, req := range s.requests {
		if req.method == method {
			total++
		}
	}

	return total
}

func (s *attachmentServer) handler(t *testing.T) http.HandlerFunc {
	t.Helper()

	return func(writer http.ResponseWriter, request *http.Request) {
		s.record(request)

		switch request.Method {
		case http.MethodPost:
			assert.Equal(t, "/Production/api/v2.0/companies(C1)/attachments", request.URL.Path)

			var body map[string]string
			assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
			assert.Equal(t, "L1", body["parentId"])
			assert.Equal(t, "invoice-42.pdf", body["fileName"])
			assert.Equal(t, "Journal", body["parentType"])

			writeJSON(writer, s.createStatus, s.createBody)

		case http.MethodPatch:
			assert.Equal(t, "/Production/api/v2.0/companies(C1)/attachments(A1)/attachmentContent", request.URL.Path)
			assert.Equal(t, "*", request.Header.Get("If-Match"))
			assert.True(t, strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data"))

			assert.NoError(t, request.ParseMultipartForm(1<<20))
			assert.Len(t, request.MultipartForm.File, 1)

			file, header, err := request.FormFile("file")
			if assert.NoError(t, err) {
				content, _ := io.ReadAll(file)
				assert.Equal(t, "%PDF-1.7 test", string(content))
				assert.Equal(t, "invoice-42.pdf", header.Filename)
			}

			if s.contentStatus >= http.StatusBadRequest {
				writeODataError(writer, s.contentStatus, "Request_EntityTooLarge", "The file is too large")

				return
			}

			writer.WriteHeader(s.contentStatus)

		default:
			t.Errorf("unexpected method %s", request.Method)
		}
	}
}

func uploadRequest() *bc.AttachmentUploadRequest {
	return &bc.AttachmentUploadRequest{
		ParentID: "L1",
		Name:     "invoice-42",
		Content:  []byte("%PDF-1.7 test"),
	}
}

//nolint:funlen // Test functions can be longer for detailed testing
func TestAttachmentsClient_Upload(t *testing.T) {
	t.Parallel()

	t.Run("creates record then uploads content", func(t *testing.T) {
		t.Parallel()

		server := &attachmentServer{
			createStatus:  http.StatusCreated,
			createBody:    map[string]string{"id": "A1", "fileName": "invoice-42.pdf"},
			contentStatus: http.StatusNoContent,
		}
		client := newTestClient(t, server.handler(t))

		err := client.Attachments().Upload(context.Background(), testScope, uploadRequest())
		require.NoError(t, err)

		require.Len(t, server.requests, 2)
		assert.Equal(t, http.MethodPost, server.requests[0].method)
		assert.Equal(t, http.MethodPatch, server.requests[1].method)
	})

	t.Run("failed record creation skips content upload", func(t *testing.T) {
		t.Parallel()

		server := &attachmentServer{
			createStatus: http.StatusBadRequest,
			createBody: map[string]interface{}{
				"error": map[string]string{"code": "BadRequest", "message": "Parent does not exist"},
			},
		}
		client := newTestClient(t, server.handler(t))

		err := client.Attachments().Upload(context.Background(), testScope, uploadRequest())
		require.Error(t, err)

		_, partial := bc.IsPartialUpload(err)
		assert.False(t, partial)
		assert.Equal(t, 1, server.count(http.MethodPost))
		assert.Zero(t, server.count(http.MethodPatch))
	})

	t.Run("record without id skips content upload", func(t *testing.T) {
		t.Parallel()

		server := &attachmentServer{
			createStatus: http.StatusCreated,
			createBody:   map[string]string{"fileName": "invoice-42.pdf"},
		}
		client := newTestClient(t, server.handler(t))

		err := client.Attachments().Upload(context.Background(), testScope, uploadRequest())
		require.ErrorIs(t, err, bc.ErrEmptyAttachmentID)
		assert.Zero(t, server.count(http.MethodPatch))
	})

	t.Run("failed content upload reports orphaned record", func(t *testing.T) {
		t.Parallel()

		server := &attachmentServer{
			createStatus:  http.StatusCreated,
			createBody:    map[string]string{"id": "A1"},
			contentStatus: http.StatusRequestEntityTooLarge,
		}
		client := newTestClient(t, server.handler(t))

		err := client.Attachments().Upload(context.Background(), testScope, uploadRequest())
		require.Error(t, err)

		attachmentID, partial := bc.IsPartialUpload(err)
		assert.True(t, partial)
		assert.Equal(t, "A1", attachmentID)

		var errResp *bc.ResponseError
		require.ErrorAs(t, err, &errResp)
		assert.Equal(t, http.StatusRequestEntityTooLarge, errResp.StatusCode)
	})

	t.Run("explicit parent type", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			if request.Method == http.MethodPost {
				var body map[string]string
				assert.NoError(t, json.NewDecoder(request.Body).Decode(&body))
				assert.Equal(t, "Purchase Invoice", body["parentType"])
				writeJSON(writer, http.StatusCreated, map[string]string{"id": "A2"})

				return
			}

			writer.WriteHeader(http.StatusNoContent)
		})

		request := uploadRequest()
		request.ParentType = "Purchase Invoice"

		require.NoError(t, client.Attachments().Upload(context.Background(), testScope, request))
	})
}

func TestAttachmentsClient_Delete(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodDelete, request.Method)
		assert.Equal(t, "/Production/api/v2.0/companies(C1)/attachments(A1)", request.URL.Path)
		assert.Equal(t, "*", request.Header.Get("If-Match"))
		writer.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.Attachments().Delete(context.Background(), testScope, "A1"))
	require.ErrorIs(t, client.Attachments().Delete(context.Background(), testScope, ""), bc.ErrIDRequired)
}
