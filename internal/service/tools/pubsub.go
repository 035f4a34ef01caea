package tools

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mcpjungle/mcp-gcp/internal/gcp"
	"github.com/mcpjungle/mcp-gcp/pkg/types"
	pubsub "google.golang.org/api/pubsub/v1"
)

var (
	pubsubReadScopes    = []string{gcp.ScopePubSubReadOnly}
	pubsubPublishScopes = []string{gcp.ScopePubSub}
)

func topicsListTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List Pub/Sub topics in a project."),
		projectIDParam(),
		mcp.WithNumber("pageSize", integer(), mcp.Min(1), mcp.Max(1000),
			mcp.Description("Maximum number of topics to return"),
		),
		mcp.WithString("pageToken", mcp.Description("Token of the page to fetch, from a previous response")),
	}
	opts = append(opts, listingAnnotations("List topics")...)
	return mcp.NewTool("pubsub.topics.list", opts...)
}

func topicPublishTool() mcp.Tool {
	return mcp.NewTool("pubsub.topics.publish",
		mcp.WithDescription("Publish messages to a Pub/Sub topic. Data is base64-encoded from UTF-8."),
		projectIDParam(),
		mcp.WithString("topicId", mcp.Required(), mcp.Description("ID of the topic")),
		mcp.WithArray("messages",
			mcp.Required(),
			mcp.MinItems(1),
			mcp.Description("Messages to publish, in order"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"data": map[string]any{
						"type":        "string",
						"description": "Message body as plain UTF-8 text",
					},
					"attributes": map[string]any{
						"type":                 "object",
						"description":          "Message attributes",
						"additionalProperties": map[string]any{"type": "string"},
					},
				},
			}),
		),
		mcp.WithTitleAnnotation("Publish messages"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}

func (s *Service) listTopics(ctx context.Context, in types.TopicsListInput) (any, error) {
	id, project, err := s.session(ctx, pubsubReadScopes, in.ProjectID)
	if err != nil {
		return nil, err
	}
	svc, err := pubsub.NewService(ctx, id.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	call := svc.Projects.Topics.List("projects/" + project)
	if in.PageSize > 0 {
		call = call.PageSize(in.PageSize)
	}
	if in.PageToken != "" {
		call = call.PageToken(in.PageToken)
	}
	return call.Context(ctx).Do()
}

func (s *Service) publish(ctx context.Context, in types.TopicPublishInput) (any, error) {
	id, project, err := s.session(ctx, pubsubPublishScopes, in.ProjectID)
	if err != nil {
		return nil, err
	}
	svc, err := pubsub.NewService(ctx, id.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}

	req := &pubsub.PublishRequest{Messages: encodeMessages(in.Messages)}
	topic := fmt.Sprintf("projects/%s/topics/%s", project, in.TopicID)
	return svc.Projects.Topics.Publish(topic, req).Context(ctx).Do()
}

// encodeMessages keeps the input order, so message IDs in the response line up with the input.
func encodeMessages(in []types.PublishMessage) []*pubsub.PubsubMessage {
	out := make([]*pubsub.PubsubMessage, 0, len(in))
	for _, m := range in {
		pm := &pubsub.PubsubMessage{Attributes: m.Attributes}
		if m.Data != "" {
			pm.Data = base64.StdEncoding.EncodeToString([]byte(m.Data))
		}
		out = append(out, pm)
	}
	return out
}
