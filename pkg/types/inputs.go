package types

// WhoAmIInput is the input of the gcp.whoami tool.
type WhoAmIInput struct {
	IncludeScopes bool `json:"includeScopes,omitempty"`
}

// WhoAmI describes the ambient identity.
type WhoAmI struct {
	ProjectID string   `json:"projectId,omitempty"`
	Token     bool     `json:"token"`
	Scopes    []string `json:"scopes,omitempty"`
}

// ProjectsListInput is the input of the gcp.projects.list tool.
type ProjectsListInput struct {
	PageSize  int64  `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
	// Parent restricts the listing to the direct children of an organization or folder,
	// eg- `folders/123`.
	Parent string `json:"parent,omitempty"`
}

// BucketsListInput is the input of the gcs.buckets.list tool.
type BucketsListInput struct {
	ProjectID string `json:"projectId,omitempty"`
}

// ObjectsListInput is the input of the gcs.objects.list tool.
type ObjectsListInput struct {
	Bucket     string `json:"bucket"`
	Prefix     string `json:"prefix,omitempty"`
	MaxResults int64  `json:"maxResults,omitempty"`
}

// ObjectDownloadInput is the input of the gcs.objects.download tool.
type ObjectDownloadInput struct {
	Bucket     string `json:"bucket"`
	Object     string `json:"object"`
	Generation string `json:"generation,omitempty"`
}

// SecretAccessInput is the input of the secretmanager.secrets.access tool.
type SecretAccessInput struct {
	ProjectID string `json:"projectId,omitempty"`
	SecretID  string `json:"secretId"`
	Version   string `json:"version,omitempty"`
}

// TopicsListInput is the input of the pubsub.topics.list tool.
type TopicsListInput struct {
	ProjectID string `json:"projectId,omitempty"`
	PageSize  int64  `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

// PublishMessage is a single message to publish.
// Data is plain UTF-8 text, it is base64-encoded before being sent.
type PublishMessage struct {
	Data       string            `json:"data,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// TopicPublishInput is the input of the pubsub.topics.publish tool.
type TopicPublishInput struct {
	ProjectID string           `json:"projectId,omitempty"`
	TopicID   string           `json:"topicId"`
	Messages  []PublishMessage `json:"messages"`
}

// RunServicesListInput is the input of the run.services.list tool.
type RunServicesListInput struct {
	ProjectID string `json:"projectId,omitempty"`
	Region    string `json:"region,omitempty"`
}

// InstancesListInput is the input of the compute.instances.list tool.
type InstancesListInput struct {
	ProjectID string `json:"projectId,omitempty"`
	Zone      string `json:"zone,omitempty"`
}

// GAPIRequestInput is the input of the gapi.request tool.
type GAPIRequestInput struct {
	API        string         `json:"api"`
	Version    string         `json:"version"`
	Method     string         `json:"method"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Scopes     []string       `json:"scopes,omitempty"`
}
