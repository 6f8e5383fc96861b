package client

import (
	"github.com/kbukum/apikit/provider"
)

// compile-time assertion
var _ provider.RequestResponse[*Request, *Response] = (*Client)(nil)
