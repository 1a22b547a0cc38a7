package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func init() {
	// Report field names as they appear in the YAML file.
	validation.ErrorTag = "yaml"
}

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// collect flattens an ozzo result into ve, prefixing field names with section.
func (v *ValidationError) collect(section string, err error) {
	if err == nil {
		return
	}
	var fields validation.Errors
	if !errors.As(err, &fields) {
		v.Add("%s: %v", section, err)
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if nested, ok := fields[k].(validation.Errors); ok {
			v.collect(section+"."+k, nested)
			continue
		}
		v.Add("%s.%s: %v", section, k, fields[k])
	}
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	ve.collect("backend", validateBackend(&cfg.Backend))
	ve.collect("logger", validation.ValidateStruct(&cfg.Logger,
		validation.Field(&cfg.Logger.Level, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&cfg.Logger.Format, validation.In("text", "json")),
	))
	ve.collect("tracer", validation.ValidateStruct(&cfg.Tracer,
		validation.Field(&cfg.Tracer.Exporter, validation.In("stdout", "noop")),
	))
	ve.collect("ui", validation.ValidateStruct(&cfg.UI,
		validation.Field(&cfg.UI.MaxMessages, validation.Min(0)),
	))
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateBackend(b *BackendConfig) error {
	isHTTP := b.Transport == "http"
	isMCP := b.Transport == "mcp"
	return validation.ValidateStruct(b,
		validation.Field(&b.Transport, validation.Required, validation.In("http", "mcp")),
		validation.Field(&b.URL, validation.When(isHTTP, validation.Required, validation.By(httpURL))),
		validation.Field(&b.QueryPath, validation.When(isHTTP, validation.Required, validation.By(absolutePath))),
		validation.Field(&b.HealthPath, validation.When(isHTTP, validation.Required, validation.By(absolutePath))),
		validation.Field(&b.ConnTimeout, validation.Min(0)),
		validation.Field(&b.RespTimeout, validation.Min(0)),
		validation.Field(&b.CircuitBreaker, validation.By(func(any) error {
			cb := &b.CircuitBreaker
			return validation.ValidateStruct(cb,
				validation.Field(&cb.MaxFailures, validation.When(cb.Enabled, validation.Required)),
				validation.Field(&cb.Timeout, validation.When(cb.Enabled, validation.Required)),
			)
		})),
		validation.Field(&b.MCP, validation.When(isMCP, validation.By(func(any) error {
			m := &b.MCP
			return validation.ValidateStruct(m,
				validation.Field(&m.Transport, validation.Required, validation.In("stdio", "http")),
				validation.Field(&m.Command, validation.When(m.Transport == "stdio", validation.Required)),
				validation.Field(&m.URL, validation.When(m.Transport == "http", validation.Required, validation.By(httpURL))),
				validation.Field(&m.Tool, validation.Required),
				validation.Field(&m.HealthTool, validation.Required),
			)
		}))),
	)
}

func httpURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http(s) URL with a host")
	}
	return nil
}

func absolutePath(value any) error {
	s, _ := value.(string)
	if s != "" && !strings.HasPrefix(s, "/") {
		return errors.New("must start with /")
	}
	return nil
}
