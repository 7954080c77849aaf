package domain

// IngestState is a position in the per-document ingestion state machine.
type IngestState string

// Ingestion states. Stored and Failed are terminal.
const (
	StateReceived    IngestState = "received"
	StateNormalizing IngestState = "normalizing"
	StateChunking    IngestState = "chunking"
	StateEmbedding   IngestState = "embedding"
	StateStoring     IngestState = "storing"
	StateStored      IngestState = "stored"
	StateFailed      IngestState = "failed"
)

// IngestReport is the outcome of one document's ingestion.
type IngestReport struct {
	DocumentID string      `json:"document_id"`
	State      IngestState `json:"state"`

	// FailedStage is the stage that failed when State is StateFailed.
	FailedStage IngestState `json:"failed_stage,omitempty"`

	// Chunks is the number of records stored.
	Chunks int `json:"chunks"`

	// Trace lists every state entered, in order.
	Trace []IngestState `json:"trace"`
}

// BatchFailure records one failed item of a batch.
type BatchFailure struct {
	DocumentID string      `json:"document_id"`
	Stage      IngestState `json:"stage"`
	Err        error       `json:"-"`
}

// BatchResult is the outcome of a batch ingestion.
// Order follows the input order.
type BatchResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}
