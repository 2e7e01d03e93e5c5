// Package bc provides types, interfaces, and helpers for working with the
// Microsoft Dynamics 365 Business Central API (v2.0).
//
// # Overview
//
// The bc package defines the domain types (Company, Vendor, Journal,
// JournalLine, Dimension and the attachment requests) and the interfaces for resource
// clients. A concrete implementation is provided by the bcclient package,
// which wires configuration, transport and the client-credentials token
// manager.
//
// Getting a client
//
//	cli, err := bcclient.New(ctx, &bc.Config{
//	  TenantID:     tenantID,
//	  ClientID:     clientID,
//	  ClientSecret: clientSecret,
//	})
//	if err != nil { log.Fatal(err) }
//
//	vendors, err := cli.Vendors().List(ctx, bc.Scope{CompanyID: companyID},
//	  bc.NewQueryParams().WithFilter(bc.FilterContains, "displayName", "Acme").WithTop(5))
//
// # Queries
//
// QueryParams carries at most one filter, one sort key and one limit, which
// become the $filter, $orderby and $top parameters. Filter values are quoted
// but not escaped.
//
// # Errors
//
// AuthError reports a failed token exchange, ResponseError any non-2xx
// response, and PartialUploadError an attachment whose record exists without
// content. IsNotFound, IsUnauthorized and friends branch on common cases.
//
// # Caching and interceptors
//
// Cache (memory, NATS KV or none) can hold issued tokens so several processes
// share one. InterceptorChain hooks around every request for logging, extra
// headers or metrics. BatchExecutor runs independent mutations concurrently.
package bc
