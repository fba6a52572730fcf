// Package expressions wraps JMESPath evaluation for the normalizer's field
// mapping profiles.
package expressions

import (
	"fmt"
	"sync"

	"github.com/jmespath/go-jmespath"
)

// Evaluator evaluates JMESPath expressions with a compiled-expression cache.
// Safe for concurrent use.
type Evaluator struct {
	cache map[string]*jmespath.JMESPath
	mu    sync.RWMutex
}

// NewEvaluator creates a new expression evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{
		cache: make(map[string]*jmespath.JMESPath),
	}
}

// Evaluate evaluates a JMESPath expression against data
func (e *Evaluator) Evaluate(expression string, data any) (any, error) {
	compiled, err := e.getOrCompile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expression, err)
	}

	result, err := compiled.Search(data)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate expression %q: %w", expression, err)
	}

	return result, nil
}

// EvaluateString evaluates an expression and returns the result as a string
func (e *Evaluator) EvaluateString(expression string, data any) (string, error) {
	result, err := e.Evaluate(expression, data)
	if err != nil {
		return "", err
	}

	if result == nil {
		return "", nil
	}

	str, ok := result.(string)
	if !ok {
		return fmt.Sprintf("%v", result), nil
	}

	return str, nil
}

// EvaluateFloat evaluates an expression and returns the result as a float64.
// Missing fields evaluate to zero; non-numeric values are an error so the
// caller can skip the record.
func (e *Evaluator) EvaluateFloat(expression string, data any) (float64, error) {
	result, err := e.Evaluate(expression, data)
	if err != nil {
		return 0, err
	}

	switch v := result.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", result)
	}
}

// EvaluateInt evaluates an expression and returns the result as an int
func (e *Evaluator) EvaluateInt(expression string, data any) (int, error) {
	f, err := e.EvaluateFloat(expression, data)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// EvaluateSlice evaluates an expression and returns the result as a slice.
// A single non-slice value is wrapped.
func (e *Evaluator) EvaluateSlice(expression string, data any) ([]any, error) {
	result, err := e.Evaluate(expression, data)
	if err != nil {
		return nil, err
	}

	if result == nil {
		return nil, nil
	}

	slice, ok := result.([]any)
	if !ok {
		return []any{result}, nil
	}

	return slice, nil
}

// EvaluateStringSlice evaluates an expression and returns string elements,
// skipping anything non-string.
func (e *Evaluator) EvaluateStringSlice(expression string, data any) ([]string, error) {
	slice, err := e.EvaluateSlice(expression, data)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, item := range slice {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// Validate checks if an expression is valid
func (e *Evaluator) Validate(expression string) error {
	_, err := e.getOrCompile(expression)
	return err
}

// getOrCompile retrieves a compiled expression from cache or compiles it
func (e *Evaluator) getOrCompile(expression string) (*jmespath.JMESPath, error) {
	e.mu.RLock()
	if compiled, ok := e.cache[expression]; ok {
		e.mu.RUnlock()
		return compiled, nil
	}
	e.mu.RUnlock()

	compiled, err := jmespath.Compile(expression)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[expression] = compiled
	e.mu.Unlock()

	return compiled, nil
}
