package fetch

import "time"

// RetryConfig controls the retry loop for a single category fetch.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BackoffType is one of fibonacci, exponential, linear. Defaults to
	// fibonacci.
	BackoffType string

	// InitialDelay is the base delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the computed delay.
	MaxDelay time.Duration
}

// CalculateBackoff calculates the backoff delay for a retry attempt,
// starting at attempt 1.
func CalculateBackoff(cfg RetryConfig, attempt int) time.Duration {
	initial := cfg.InitialDelay
	if initial <= 0 {
		initial = time.Second
	}

	var delay time.Duration
	switch cfg.BackoffType {
	case "exponential":
		delay = exponentialBackoff(initial, attempt)
	case "linear":
		delay = linearBackoff(initial, attempt)
	default:
		delay = fibonacciBackoff(initial, attempt)
	}

	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}

	return delay
}

// fibonacciBackoff calculates Fibonacci backoff delay
func fibonacciBackoff(initial time.Duration, attempt int) time.Duration {
	if attempt <= 1 {
		return initial
	}
	a, b := 1, 1
	for i := 2; i < attempt; i++ {
		a, b = b, a+b
	}
	return initial * time.Duration(b)
}

// exponentialBackoff calculates exponential backoff delay
func exponentialBackoff(initial time.Duration, attempt int) time.Duration {
	multiplier := 1
	for i := 1; i < attempt; i++ {
		multiplier *= 2
	}
	return initial * time.Duration(multiplier)
}

// linearBackoff calculates linear backoff delay
func linearBackoff(initial time.Duration, attempt int) time.Duration {
	return initial * time.Duration(attempt)
}
