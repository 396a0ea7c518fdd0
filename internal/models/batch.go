// ABOUTME: BatchJob tracks a provider-side embedding batch through its lifecycle
// ABOUTME: Discarded once results are merged back into segments
package models

// BatchStatus is the provider-reported state of a batch job.
type BatchStatus string

const (
	BatchStatusCreated    BatchStatus = "created"
	BatchStatusValidating BatchStatus = "validating"
	BatchStatusInProgress BatchStatus = "in_progress"
	BatchStatusFinalizing BatchStatus = "finalizing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusFailed     BatchStatus = "failed"
	BatchStatusExpired    BatchStatus = "expired"
	BatchStatusCancelled  BatchStatus = "cancelled"
)

// BatchJob references a provider-side batch of embedding requests. It owns no
// segments; correlation back to segments happens through display keys.
type BatchJob struct {
	ID           string      `json:"id"`
	Status       BatchStatus `json:"status"`
	Total        int         `json:"total"`
	Completed    int         `json:"completed"`
	OutputFileID string      `json:"output_file_id,omitempty"`
}

// Done reports whether the job reached its successful terminal state.
func (j BatchJob) Done() bool {
	return j.Status == BatchStatusCompleted
}

// Terminal reports whether the job reached a terminal failure state from which
// no output will ever be available.
func (j BatchJob) Terminal() bool {
	switch j.Status {
	case BatchStatusFailed, BatchStatusExpired, BatchStatusCancelled:
		return true
	}
	return false
}
