// Package requestid assigns every HTTP request an ID, exposes it through the
// request context and echoes it in the X-Request-ID response header. The
// logger picks it up via logger.StringExtractor("request_id", requestid.FromContext).
package requestid
