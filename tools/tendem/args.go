package tendem

// ListTasksArgs are the arguments of list_tasks
type ListTasksArgs struct {
	PageNumber int `json:"page_number" validate:"gte=0" jsonschema:"description=Page number (0-indexed).,minimum=0" fake:"{number:0,3}"`
	PageSize   int `json:"page_size" validate:"gte=1,lte=100" jsonschema:"description=Number of results per page (1-100).,minimum=1,maximum=100" fake:"{number:1,100}"`
}

// CreateTaskArgs are the arguments of create_task
type CreateTaskArgs struct {
	Text string `json:"text" validate:"notblank" jsonschema:"description=The task description/prompt to execute." fake:"{sentence:12}"`
}

// TaskArgs identify a task
type TaskArgs struct {
	TaskID string `json:"task_id" jsonschema:"description=The Tendem task ID (UUID).,format=uuid" fake:"{uuid}"`
}

// TaskResultsArgs are the arguments of get_all_task_results
type TaskResultsArgs struct {
	TaskID     string `json:"task_id" jsonschema:"description=The Tendem task ID (UUID) to get results for.,format=uuid" fake:"{uuid}"`
	PageNumber int    `json:"page_number" validate:"gte=0" jsonschema:"description=Page number (0-indexed).,minimum=0" fake:"{number:0,3}"`
	PageSize   int    `json:"page_size" validate:"gte=1,lte=100" jsonschema:"description=Number of results per page (1-100).,minimum=1,maximum=100" fake:"{number:1,100}"`
}

// DownloadArtifactArgs are the arguments of download_artifact
type DownloadArtifactArgs struct {
	TaskID     string `json:"task_id" jsonschema:"description=The Tendem task ID (UUID).,format=uuid" fake:"{uuid}"`
	ArtifactID string `json:"artifact_id" jsonschema:"description=The artifact ID (UUID) from the agents-reference block.,format=uuid" fake:"{uuid}"`
	Path       string `json:"path" validate:"notblank" jsonschema:"description=The file path where the artifact should be saved." fake:"~/Downloads/{word}.pdf"`
}
