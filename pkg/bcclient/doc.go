// Package bcclient is the entry point for constructing a Business Central API
// client that implements the bc.Client interface.
//
// It layers configuration checks, the client-credentials token manager and
// the HTTP transport on top of the resource interfaces and types defined in
// the bc package.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/bcapi/pkg/bc"
//	  "github.com/fivetwenty-io/bcapi/pkg/bcclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  cli, err := bcclient.New(ctx, &bc.Config{
//	    TenantID:     "contoso.onmicrosoft.com",
//	    ClientID:     "client-id",
//	    ClientSecret: "client-secret",
//	  })
//	  if err != nil { log.Fatal(err) }
//	  defer cli.Close()
//
//	  companies, err := cli.Companies().List(ctx, "Production", nil)
//	  if err != nil { log.Fatal(err) }
//
//	  scope := bc.Scope{CompanyID: companies[0].ID}
//	  vendors, err := cli.Vendors().List(ctx, scope, bc.NewQueryParams().WithTop(10))
//	  if err != nil { log.Fatal(err) }
//	  _ = vendors
//	}
//
// Sharing tokens
//
// Every process holding a client performs its own token exchange. To share a
// token between processes, point them at the same NATS KV bucket:
//
//	cli, err := bcclient.NewWithCache(ctx, config, &bc.CacheConfig{
//	  Type: bc.CacheTypeNATS,
//	  NATS: &bc.NATSKVConfig{URL: "nats://127.0.0.1:4222"},
//	})
//	if err != nil { log.Fatal(err) }
//	defer cli.Close()
//
// The client owns the cache built from the config and Close releases it,
// closing the NATS connection. Close a client once it is no longer used; a
// client built without a closable cache returns nil from Close.
//
// Errors
//
// A failed token exchange surfaces as *bc.AuthError and no resource request
// is sent. Non-2xx responses surface as *bc.ResponseError; use bc.IsNotFound
// and friends to branch on them.
package bcclient
