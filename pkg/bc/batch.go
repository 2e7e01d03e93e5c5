package bc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/bcapi/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedOperationType = errors.New("unsupported operation type")
	ErrMissingOperationPayload  = errors.New("operation payload missing")
)

// BatchOperationType names the mutation a batch operation performs.
type BatchOperationType string

const (
	BatchCreateVendor      BatchOperationType = "create-vendor"
	BatchUpdateVendor      BatchOperationType = "update-vendor"
	BatchCreateJournalLine BatchOperationType = "create-journal-line"
	BatchAddDimension      BatchOperationType = "add-dimension"
)

// BatchOperation represents a single operation in a batch. Only the payload
// matching Type is read.
type BatchOperation struct {
	ID    string             `json:"id"    yaml:"id"`
	Type  BatchOperationType `json:"type"  yaml:"type"`
	Scope Scope              `json:"scope" yaml:"scope"`

	VendorID      string `json:"vendorId,omitempty"      yaml:"vendorId,omitempty"`
	JournalID     string `json:"journalId,omitempty"     yaml:"journalId,omitempty"`
	JournalLineID string `json:"journalLineId,omitempty" yaml:"journalLineId,omitempty"`

	Vendor      *VendorRequest            `json:"vendor,omitempty"      yaml:"vendor,omitempty"`
	JournalLine *JournalLineCreateRequest `json:"journalLine,omitempty" yaml:"journalLine,omitempty"`
	Dimension   *DimensionSetLineRequest  `json:"dimension,omitempty"   yaml:"dimension,omitempty"`

	Callback func(result *BatchResult) `json:"-" yaml:"-"`
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string        `json:"id"              yaml:"id"`
	Success  bool          `json:"success"         yaml:"success"`
	Data     interface{}   `json:"data,omitempty"  yaml:"data,omitempty"`
	Error    error         `json:"-"               yaml:"-"`
	Duration time.Duration `json:"duration"        yaml:"duration"`
}

// BatchExecutor runs independent operations concurrently. Operations are not
// ordered relative to each other and a failure does not stop the others.
type BatchExecutor struct {
	client      ResourceClients
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client ResourceClients, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     constants.DefaultBatchTimeout,
	}
}

// SetTimeout sets the timeout applied to each operation.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations. Results are returned in input order.
// Operations still waiting for a slot when ctx ends fail with ctx.Err().
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) []BatchResult {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				results[index] = BatchResult{ID: operation.ID, Error: ctx.Err()}

				if operation.Callback != nil {
					operation.Callback(&results[index])
				}

				return
			}

			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results
}

func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	data, err := b.dispatch(ctx, operation)
	if err != nil {
		return &BatchResult{ID: operation.ID, Error: err}
	}

	return &BatchResult{
		ID:      operation.ID,
		Success: true,
		Data:    data,
	}
}

func (b *BatchExecutor) dispatch(ctx context.Context, operation BatchOperation) (interface{}, error) {
	switch operation.Type {
	case BatchCreateVendor:
		if operation.Vendor == nil {
			return nil, fmt.Errorf("%w: vendor", ErrMissingOperationPayload)
		}

		return b.client.Vendors().Create(ctx, operation.Scope, operation.Vendor)

	case BatchUpdateVendor:
		if operation.Vendor == nil {
			return nil, fmt.Errorf("%w: vendor", ErrMissingOperationPayload)
		}

		return b.client.Vendors().Update(ctx, operation.Scope, operation.VendorID, operation.Vendor)

	case BatchCreateJournalLine:
		if operation.JournalLine == nil {
			return nil, fmt.Errorf("%w: journalLine", ErrMissingOperationPayload)
		}

		return b.client.JournalLines().Create(ctx, operation.Scope, operation.JournalID, operation.JournalLine)

	case BatchAddDimension:
		if operation.Dimension == nil {
			return nil, fmt.Errorf("%w: dimension", ErrMissingOperationPayload)
		}

		return nil, b.client.Dimensions().AddToJournalLine(ctx, operation.Scope, operation.JournalLineID, operation.Dimension)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperationType, operation.Type)
	}
}

// FailedResults returns the results of failed operations.
func FailedResults(results []BatchResult) []BatchResult {
	var failed []BatchResult

	for _, result := range results {
		if !result.Success {
			failed = append(failed, result)
		}
	}

	return failed
}

// BatchBuilder helps assemble batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddCreateVendor adds a vendor create operation.
func (b *BatchBuilder) AddCreateVendor(id string, scope Scope, request *VendorRequest) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Type: BatchCreateVendor, Scope: scope, Vendor: request})
}

// AddUpdateVendor adds a vendor update operation.
func (b *BatchBuilder) AddUpdateVendor(id string, scope Scope, vendorID string, request *VendorRequest) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Type: BatchUpdateVendor, Scope: scope, VendorID: vendorID, Vendor: request})
}

// AddCreateJournalLine adds a journal line create operation.
func (b *BatchBuilder) AddCreateJournalLine(id string, scope Scope, journalID string, request *JournalLineCreateRequest) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Type: BatchCreateJournalLine, Scope: scope, JournalID: journalID, JournalLine: request})
}

// AddDimension adds a dimension set line operation.
func (b *BatchBuilder) AddDimension(id string, scope Scope, journalLineID string, request *DimensionSetLineRequest) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Type: BatchAddDimension, Scope: scope, JournalLineID: journalLineID, Dimension: request})
}

// AddOperation adds an arbitrary operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the assembled operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}
