package credstore

// DefaultMaxRetries bounds optimistic update attempts in Mongo and Redis.
const DefaultMaxRetries = 10

type options struct {
	maxRetries int
	prefix     string
	collection string
}

func defaultOptions() options {
	return options{
		maxRetries: DefaultMaxRetries,
		prefix:     "authkit:credential",
		collection: "credentials",
	}
}

// Option configures the optimistic stores.
type Option func(*options)

// WithMaxRetries sets how many times a conflicting update is re-attempted.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRetries = n
		}
	}
}

// WithKeyPrefix sets the Redis key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithCollection sets the Mongo collection name.
func WithCollection(name string) Option {
	return func(o *options) {
		if name != "" {
			o.collection = name
		}
	}
}
