// Package client is the request execution core: it builds outgoing
// requests, layers the configured authentication schemes onto them,
// executes them through a per-base-URL transport pool under a retry
// policy, and classifies the outcome.
//
// A request moves through Building, Authenticating, Executing and
// Classifying; the classification either returns a Response, schedules a
// retry, or raises a typed *Error.
//
// # Basic usage
//
//	c, err := client.New(client.Config{
//	    BaseURL: "https://api.example.com",
//	    Schemes: []auth.Scheme{
//	        auth.APIKey{Key: subscriptionKey, Name: "Ocp-Apim-Subscription-Key"},
//	        auth.Bearer{Audience: "api://orders"},
//	    },
//	    Credentials: credential.NewChain(
//	        &credential.EnvSource{Var: "ORDERS_TOKEN"},
//	        ccSource,
//	    ),
//	})
//
//	resp, err := c.Do(ctx, http.MethodGet, "/orders/123", nil)
//
// Statuses 200, 201, 204 and 404 come back as normal responses; absence
// is a business outcome, not an exception. 400, 401 and 422 fail
// immediately; everything else is retried with 2^n-second backoff.
package client
