package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
	"github.com/spf13/cobra"
)

// NewAttachmentsCommand creates the attachments command group.
func NewAttachmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attachments",
		Aliases: []string{"attachment"},
		Short:   "Manage attachments",
		Long:    "Upload documents to records and remove attachment records",
	}

	cmd.AddCommand(newAttachmentsUploadCommand())
	cmd.AddCommand(newAttachmentsDeleteCommand())

	return cmd
}

func newAttachmentsUploadCommand() *cobra.Command {
	var (
		parentID   string
		parentType string
		file       string
		name       string
		cleanup    bool
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a document",
		Long: `Upload a document to a record. The attachment record is created first and
the content sent second; with --cleanup a record whose content failed to upload
is deleted again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if parentID == "" {
				return constants.ErrParentRequired
			}

			if file == "" {
				return constants.ErrFileRequired
			}

			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			content, err := os.ReadFile(filepath.Clean(file))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file, err)
			}

			if name == "" {
				name = attachmentName(file)
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			err = client.Attachments().Upload(cmd.Context(), scope, &bc.AttachmentUploadRequest{
				ParentID:   parentID,
				Name:       name,
				Content:    content,
				ParentType: parentType,
			})
			if err != nil {
				return handleUploadFailure(cmd, client, scope, err, cleanup)
			}

			_, _ = fmt.Fprintf(stdout, "Uploaded %s%s to %s\n", name, constants.AttachmentFileExtension, parentID)

			return nil
		},
	}

	addScopeFlags(cmd)
	cmd.Flags().StringVar(&parentID, "parent", "", "id of the record receiving the attachment")
	cmd.Flags().StringVar(&parentType, "parent-type", constants.AttachmentParentTypeJournal, "type of the parent record")
	cmd.Flags().StringVarP(&file, "file", "f", "", "path of the document to upload")
	cmd.Flags().StringVar(&name, "name", "", "attachment name without extension (defaults to the file name)")
	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "delete the attachment record when the content upload fails")

	return cmd
}

// handleUploadFailure optionally deletes the record left by a partial upload.
func handleUploadFailure(cmd *cobra.Command, client bc.Client, scope bc.Scope, uploadErr error, cleanup bool) error {
	attachmentID, partial := bc.IsPartialUpload(uploadErr)
	if !partial {
		return fmt.Errorf("failed to upload attachment: %w", uploadErr)
	}

	if !cleanup {
		return fmt.Errorf("%w (remove it with 'bc attachments delete %s')", uploadErr, attachmentID)
	}

	err := client.Attachments().Delete(cmd.Context(), scope, attachmentID)
	if err != nil {
		return fmt.Errorf("%w; cleanup of attachment %s failed: %w", uploadErr, attachmentID, err)
	}

	_, _ = fmt.Fprintf(stdout, "Deleted incomplete attachment %s\n", attachmentID)

	return uploadErr
}

func attachmentName(file string) string {
	base := filepath.Base(file)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newAttachmentsDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ATTACHMENT_ID",
		Short: "Delete an attachment",
		Long:  "Delete an attachment record and its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags(cmd)
			if err != nil {
				return err
			}

			client, err := createClient(cmd.Context())
			if err != nil {
				return err
			}

			defer func() { _ = client.Close() }()

			err = client.Attachments().Delete(cmd.Context(), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete attachment: %w", err)
			}

			_, _ = fmt.Fprintf(stdout, "Deleted attachment %s\n", args[0])

			return nil
		},
	}

	addScopeFlags(cmd)

	return cmd
}
