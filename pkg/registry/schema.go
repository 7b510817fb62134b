// pkg/registry/schema.go
package registry

// Categories double as the directory under internal/workers.
const (
	CategoryTranscript     = "transcript"
	CategoryPersonality    = "personality"
	CategoryRecommendation = "recommendation"
	CategoryCatalog        = "catalog"
	CategoryAssessment     = "assessment"
)

var knownCategories = map[string]bool{
	CategoryTranscript:     true,
	CategoryPersonality:    true,
	CategoryRecommendation: true,
	CategoryCatalog:        true,
	CategoryAssessment:     true,
}

// ActivityRegistry is the document kept in configs/activity-registry.json.
type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one BPMN service task and the worker that serves it.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	// ErrorCodes lists the BPMN error codes the worker may throw.
	ErrorCodes []string `json:"errorCodes"`
	Timeout    string   `json:"timeout"`
	Retries    int      `json:"retries"`
	Workflows  []string `json:"workflows"`
	Tags       []string `json:"tags"`
}
