package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/internal/http"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
)

// AttachmentsClient implements bc.AttachmentsClient.
type AttachmentsClient struct {
	httpClient *http.Client
}

// NewAttachmentsClient creates a new attachments client.
func NewAttachmentsClient(httpClient *http.Client) *AttachmentsClient {
	return &AttachmentsClient{
		httpClient: httpClient,
	}
}

// Upload implements bc.AttachmentsClient.Upload. The metadata record is
// created first; its content is only sent once the record exists.
func (c *AttachmentsClient) Upload(ctx context.Context, scope bc.Scope, request *bc.AttachmentUploadRequest) error {
	err := requireCompany(scope)
	if err != nil {
		return err
	}

	if request == nil {
		return bc.ErrRequestRequired
	}

	attachmentID, err := c.create(ctx, scope, request)
	if err != nil {
		return err
	}

	err = c.uploadContent(ctx, scope, attachmentID, request.Name+constants.AttachmentFileExtension, request.Content)
	if err != nil {
		return &bc.PartialUploadError{AttachmentID: attachmentID, Err: err}
	}

	return nil
}

// Delete implements bc.AttachmentsClient.Delete.
func (c *AttachmentsClient) Delete(ctx context.Context, scope bc.Scope, attachmentID string) error {
	err := requireCompany(scope)
	if err != nil {
		return err
	}

	if attachmentID == "" {
		return fmt.Errorf("attachment %w", bc.ErrIDRequired)
	}

	_, err = c.httpClient.Delete(ctx, companyPath(scope, entitySegment(entityAttachments, attachmentID)),
		map[string]string{constants.HeaderIfMatch: constants.IfMatchAny})
	if err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}

	return nil
}

func (c *AttachmentsClient) create(ctx context.Context, scope bc.Scope, request *bc.AttachmentUploadRequest) (string, error) {
	parentType := request.ParentType
	if parentType == "" {
		parentType = constants.AttachmentParentTypeJournal
	}

	resp, err := c.httpClient.Post(ctx, companyPath(scope, entityAttachments), &bc.AttachmentCreateRequest{
		ParentID:   request.ParentID,
		FileName:   request.Name + constants.AttachmentFileExtension,
		ParentType: parentType,
	})
	if err != nil {
		return "", fmt.Errorf("creating attachment: %w", err)
	}

	ref, err := decodeEntity[bc.Ref](resp.Body, "attachment")
	if err != nil {
		return "", err
	}

	if ref.ID == "" {
		return "", bc.ErrEmptyAttachmentID
	}

	return ref.ID, nil
}

func (c *AttachmentsClient) uploadContent(ctx context.Context, scope bc.Scope, attachmentID, fileName string, content []byte) error {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(constants.AttachmentFileField, fileName)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}

	_, err = part.Write(content)
	if err != nil {
		return fmt.Errorf("writing file to form: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return fmt.Errorf("closing multipart writer: %w", err)
	}

	path := companyPath(scope, entitySegment(entityAttachments, attachmentID), entityAttachmentContent)

	_, err = c.httpClient.PatchRaw(ctx, path, buf.Bytes(), writer.FormDataContentType(),
		map[string]string{constants.HeaderIfMatch: constants.IfMatchAny})
	if err != nil {
		return fmt.Errorf("uploading attachment content: %w", err)
	}

	return nil
}
