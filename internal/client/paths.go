package client

import (
	"strings"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/fivetwenty-io/bcapi/pkg/bc"
)

// Entity set names used in resource paths.
const (
	entityCompanies         = "companies"
	entityVendors           = "vendors"
	entityJournals          = "journals"
	entityJournalLines      = "journalLines"
	entityDimensions        = "dimensions"
	entityDimensionSetLines = "dimensionSetLines"
	entityAttachments       = "attachments"
	entityAttachmentContent = "attachmentContent"
)

// companiesPath returns "<env>/api/v2.0/companies".
func companiesPath(environment string) string {
	return strings.Join([]string{
		bc.EnvironmentOrDefault(environment),
		constants.APIVersionPath,
		entityCompanies,
	}, "/")
}

// companyPath returns "<env>/api/v2.0/companies(<id>)/<segments...>".
func companyPath(scope bc.Scope, segments ...string) string {
	parts := append([]string{
		bc.EnvironmentOrDefault(scope.Environment),
		constants.APIVersionPath,
		entitySegment(entityCompanies, scope.CompanyID),
	}, segments...)

	return strings.Join(parts, "/")
}

// entitySegment addresses one record of an entity set, e.g. "vendors(<id>)".
func entitySegment(name, id string) string {
	return name + "(" + id + ")"
}

func requireCompany(scope bc.Scope) error {
	if scope.CompanyID == "" {
		return bc.ErrCompanyIDRequired
	}

	return nil
}
