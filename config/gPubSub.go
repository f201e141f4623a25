package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

// AuditEvent is published after every export/restore attempt so downstream
// consumers (alerting, reporting) can observe backup health.
type AuditEvent struct {
	Operation    string    `json:"operation"`
	Kind         string    `json:"kind"`
	Status       string    `json:"status"`
	RemoteFileId string    `json:"remote_file_id"`
	ErrorMessage string    `json:"error_message,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

var (
	pubsubClient   *pubsub.Client
	pubsubClientMu sync.Mutex
)

func init() {
	godotenv.Load()
}

func getPubSubProjectID() string {
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		return v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	return ""
}

func getPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubsubClientMu.Lock()
	defer pubsubClientMu.Unlock()
	if pubsubClient != nil {
		return pubsubClient, nil
	}

	projectID := getPubSubProjectID()
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}

	var opts []option.ClientOption
	if credJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON"); credJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
	}
	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}
	pubsubClient = client
	return client, nil
}

// PublishAuditEvent publishes a backup audit event to BACKUP_EVENTS_TOPIC.
// Publishing is best-effort: when the topic or project is not configured the
// event is dropped silently, and failures are returned for logging only.
func PublishAuditEvent(ctx context.Context, event AuditEvent) error {
	topicID := os.Getenv("BACKUP_EVENTS_TOPIC")
	if topicID == "" {
		return nil
	}

	client, err := getPubSubClient(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	result := client.Topic(topicID).Publish(ctx, &pubsub.Message{Data: data})
	_, err = result.Get(ctx)
	return err
}
