package constant

const (
	HeaderID          = "X-Request-Id"
	HeaderUserAgent   = "User-Agent"
	HeaderContentType = "Content-Type"
	Authorization     = "Authorization"
	Bearer            = "Bearer"
)
