package firestoredb

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/sprachhaus/sprachhaus-backend/internal/platform/gcpopts"
	"github.com/sprachhaus/sprachhaus-backend/internal/platform/logger"
)

func NewClient(ctx context.Context, log *logger.Logger) (*firestore.Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	projectID := strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID"))
	if projectID == "" {
		projectID = strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT"))
	}
	if projectID == "" {
		return nil, fmt.Errorf("missing FIRESTORE_PROJECT_ID")
	}
	client, err := firestore.NewClient(ctx, projectID, gcpopts.ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	log.Info("Firestore client ready", "project_id", projectID)
	return client, nil
}
