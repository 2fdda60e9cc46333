package gateway

import "context"

// Request is the invocation contract: one structured request in, one
// structured response out. The Body field carries a JSON-encoded string, and
// Headers holds single-valued header entries including Cookie.
type Request struct {
	HTTPMethod            string            `json:"httpMethod"`
	Resource              string            `json:"resource"`
	Headers               map[string]string `json:"headers,omitempty"`
	Body                  string            `json:"body,omitempty"`
	QueryStringParameters map[string]string `json:"queryStringParameters,omitempty"`
}

// Response is the uniform response envelope returned by every handler
type Response struct {
	StatusCode int               `json:"statusCode"`
	Body       string            `json:"body"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// HandlerFunc is the unit of logic answering one (path, method) pair
type HandlerFunc func(ctx context.Context, req Request) Response
