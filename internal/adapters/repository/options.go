package repository

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithName labels the store in metrics and logs, e.g. "priority" or "gap".
func WithName(name string) Option {
	return func(s *TreapStore) {
		if name != "" {
			s.name = name
		}
	}
}
