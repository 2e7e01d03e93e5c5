package bc

import "time"

// Company represents a company in a Business Central environment.
type Company struct {
	ID                string    `json:"id"                yaml:"id"`
	SystemVersion     string    `json:"systemVersion"     yaml:"systemVersion"`
	Timestamp         int64     `json:"timestamp"         yaml:"timestamp"`
	Name              string    `json:"name"              yaml:"name"`
	DisplayName       string    `json:"displayName"       yaml:"displayName"`
	BusinessProfileID string    `json:"businessProfileId" yaml:"businessProfileId"`
	SystemCreatedAt   time.Time `json:"systemCreatedAt"   yaml:"systemCreatedAt"`
	SystemCreatedBy   string    `json:"systemCreatedBy"   yaml:"systemCreatedBy"`
	SystemModifiedAt  time.Time `json:"systemModifiedAt"  yaml:"systemModifiedAt"`
	SystemModifiedBy  string    `json:"systemModifiedBy"  yaml:"systemModifiedBy"`
}

// Vendor represents a vendor of a company.
type Vendor struct {
	ID                    string    `json:"id"                    yaml:"id"`
	Number                string    `json:"number"                yaml:"number"`
	DisplayName           string    `json:"displayName"           yaml:"displayName"`
	AddressLine1          string    `json:"addressLine1"          yaml:"addressLine1"`
	AddressLine2          string    `json:"addressLine2"          yaml:"addressLine2"`
	City                  string    `json:"city"                  yaml:"city"`
	State                 string    `json:"state"                 yaml:"state"`
	Country               string    `json:"country"               yaml:"country"`
	PostalCode            string    `json:"postalCode"            yaml:"postalCode"`
	PhoneNumber           string    `json:"phoneNumber"           yaml:"phoneNumber"`
	Email                 string    `json:"email"                 yaml:"email"`
	Website               string    `json:"website"               yaml:"website"`
	TaxRegistrationNumber string    `json:"taxRegistrationNumber" yaml:"taxRegistrationNumber"`
	CurrencyID            string    `json:"currencyId"            yaml:"currencyId"`
	CurrencyCode          string    `json:"currencyCode"          yaml:"currencyCode"`
	IRS1099Code           string    `json:"irs1099Code"           yaml:"irs1099Code"`
	PaymentTermsID        string    `json:"paymentTermsId"        yaml:"paymentTermsId"`
	PaymentMethodID       string    `json:"paymentMethodId"       yaml:"paymentMethodId"`
	TaxLiable             bool      `json:"taxLiable"             yaml:"taxLiable"`
	Blocked               string    `json:"blocked"               yaml:"blocked"`
	Balance               float64   `json:"balance"               yaml:"balance"`
	LastModifiedDateTime  time.Time `json:"lastModifiedDateTime"  yaml:"lastModifiedDateTime"`
}

// VendorRequest carries the writable vendor fields. Empty fields are not sent.
type VendorRequest struct {
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Number      string `json:"number,omitempty"      yaml:"number,omitempty"`
}

// Journal represents a general journal batch.
type Journal struct {
	ID                     string    `json:"id"                     yaml:"id"`
	Code                   string    `json:"code"                   yaml:"code"`
	DisplayName            string    `json:"displayName"            yaml:"displayName"`
	TemplateDisplayName    string    `json:"templateDisplayName"    yaml:"templateDisplayName"`
	BalancingAccountID     string    `json:"balancingAccountId"     yaml:"balancingAccountId"`
	BalancingAccountNumber string    `json:"balancingAccountNumber" yaml:"balancingAccountNumber"`
	LastModifiedDateTime   time.Time `json:"lastModifiedDateTime"   yaml:"lastModifiedDateTime"`
}

// DimensionLine is a dimension value attached to a parent record.
type DimensionLine struct {
	ID               string `json:"id"               yaml:"id"`
	Code             string `json:"code"             yaml:"code"`
	ParentID         string `json:"parentId"         yaml:"parentId"`
	ParentType       string `json:"parentType"       yaml:"parentType"`
	DisplayName      string `json:"displayName"      yaml:"displayName"`
	ValueID          string `json:"valueId"          yaml:"valueId"`
	ValueCode        string `json:"valueCode"        yaml:"valueCode"`
	ValueDisplayName string `json:"valueDisplayName" yaml:"valueDisplayName"`
}

// JournalLine represents a line of a general journal.
type JournalLine struct {
	ID                     string          `json:"id"                       yaml:"id"`
	JournalID              string          `json:"journalId"                yaml:"journalId"`
	JournalDisplayName     string          `json:"journalDisplayName"       yaml:"journalDisplayName"`
	LineNumber             int             `json:"lineNumber"               yaml:"lineNumber"`
	AccountType            string          `json:"accountType"              yaml:"accountType"`
	AccountID              string          `json:"accountId"                yaml:"accountId"`
	AccountNumber          string          `json:"accountNumber"            yaml:"accountNumber"`
	PostingDate            string          `json:"postingDate"              yaml:"postingDate"`
	DocumentNumber         string          `json:"documentNumber"           yaml:"documentNumber"`
	ExternalDocumentNumber *string         `json:"externalDocumentNumber"   yaml:"externalDocumentNumber"`
	Amount                 float64         `json:"amount"                   yaml:"amount"`
	Description            string          `json:"description"              yaml:"description"`
	Comment                *string         `json:"comment"                  yaml:"comment"`
	TaxCode                string          `json:"taxCode"                  yaml:"taxCode"`
	BalanceAccountType     string          `json:"balanceAccountType"       yaml:"balanceAccountType"`
	BalancingAccountID     string          `json:"balancingAccountId"       yaml:"balancingAccountId"`
	BalancingAccountNumber string          `json:"balancingAccountNumber"   yaml:"balancingAccountNumber"`
	LastModifiedDateTime   time.Time       `json:"lastModifiedDateTime"     yaml:"lastModifiedDateTime"`
	DimensionLines         []DimensionLine `json:"dimensionLines,omitempty" yaml:"dimensionLines,omitempty"`
}

// JournalLineCreateRequest carries the fields sent when posting a journal line.
// JournalID is filled in by the client from the target journal.
type JournalLineCreateRequest struct {
	JournalID              string  `json:"journalId"                        yaml:"-"`
	Amount                 float64 `json:"amount"                           yaml:"amount"`
	Description            string  `json:"description"                      yaml:"description"`
	PostingDate            string  `json:"postingDate"                      yaml:"postingDate"`
	AccountNumber          string  `json:"accountNumber"                    yaml:"accountNumber"`
	BalancingAccountNumber string  `json:"balancingAccountNumber,omitempty" yaml:"balancingAccountNumber,omitempty"`
	BalanceAccountType     string  `json:"balanceAccountType,omitempty"     yaml:"balanceAccountType,omitempty"`
	DocumentNumber         string  `json:"documentNumber,omitempty"         yaml:"documentNumber,omitempty"`
}

// Dimension represents a dimension defined for a company.
type Dimension struct {
	ID                   string    `json:"id"                   yaml:"id"`
	Code                 string    `json:"code"                 yaml:"code"`
	DisplayName          string    `json:"displayName"          yaml:"displayName"`
	LastModifiedDateTime time.Time `json:"lastModifiedDateTime" yaml:"lastModifiedDateTime"`
}

// DimensionSetLineRequest tags a record with a dimension value.
// ID is the dimension id, ValueCode the dimension value code.
type DimensionSetLineRequest struct {
	ID        string `json:"id"        yaml:"id"`
	ValueCode string `json:"valueCode" yaml:"valueCode"`
}

// AttachmentCreateRequest is the metadata posted before content is uploaded.
type AttachmentCreateRequest struct {
	ParentID   string `json:"parentId"`
	FileName   string `json:"fileName"`
	ParentType string `json:"parentType"`
}

// AttachmentUploadRequest describes a file to attach to a parent record.
type AttachmentUploadRequest struct {
	// ParentID is the id of the record receiving the attachment.
	ParentID string
	// Name is the file name without extension; ".pdf" is appended.
	Name string
	// Content is the raw file content.
	Content []byte
	// ParentType defaults to "Journal".
	ParentType string
}
