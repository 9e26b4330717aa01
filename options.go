package jsonldlint

type options struct {
	rules    []LintRule
	resolver ContextResolver
	engine   engineFactory
}

// Option configures Process and Lint.
type Option func(*options)

// WithLintingRules selects the lint rules to report. Calling it with no
// rules disables linting; syntax errors are always reported.
func WithLintingRules(rules ...LintRule) Option {
	return func(o *options) { o.rules = append([]LintRule{}, rules...) }
}

// WithContextResolver sets the resolver used for remote contexts. Share one
// resolver between calls to reuse its cache.
func WithContextResolver(r ContextResolver) Option {
	return func(o *options) { o.resolver = r }
}

func newOptions(opts []Option) options {
	o := options{rules: DefaultLintingRules}
	for _, opt := range opts {
		opt(&o)
	}
	if o.resolver == nil {
		o.resolver = NewContextResolver()
	}
	if o.engine == nil {
		o.engine = jsonGoldEngine
	}
	return o
}

func (o options) ruleSet() map[LintRule]bool {
	m := make(map[LintRule]bool, len(o.rules))
	for _, r := range o.rules {
		m[r] = true
	}
	return m
}
