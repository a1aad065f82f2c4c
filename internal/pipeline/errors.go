package pipeline

import "fmt"

// ValidationError rejects a submission before any download or
// transformation happens. UserMessage is shown to the user as-is; the
// rejection is not recorded in the ledger and not reported to the operator.
type ValidationError struct {
	UserMessage string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.UserMessage)
}

// DownloadError wraps a gateway transfer failure. The user sees a generic
// notice; the wrapped detail goes to the operator channel.
type DownloadError struct {
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed: %v", e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// TransformError wraps an adapter failure (codec error, corrupt input,
// model inference failure). The user sees a generic notice; the wrapped
// detail goes to the operator channel.
type TransformError struct {
	Err error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transformation failed: %v", e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}
