package providers

import "fmt"

// RequestError reports a failed backend call. Provider variants normalize every
// failure mode (transport errors, auth failures, structured backend error
// payloads) into this type so the report builder can capture it per metric
// instead of aborting the whole report.
type RequestError struct {
	Provider string
	Metric   string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: request for metric %q failed: %v", e.Provider, e.Metric, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// InvalidDimensionError reports that the backend rejected a requested grouping
// dimension. Providers with a fallback dimension recover from it locally; it
// only surfaces when the fallback fails too.
type InvalidDimensionError struct {
	Dimension string
	Reason    string
}

func (e *InvalidDimensionError) Error() string {
	return fmt.Sprintf("dimension %q rejected by backend: %s", e.Dimension, e.Reason)
}
