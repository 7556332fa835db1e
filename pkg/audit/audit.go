package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinscribe-ai/platform/pkg/common/kafka"
	"github.com/clinscribe-ai/platform/pkg/common/logger"
	"github.com/clinscribe-ai/platform/pkg/common/models"
	"github.com/clinscribe-ai/platform/pkg/redaction"
	"github.com/clinscribe-ai/platform/pkg/tenancy"
)

// Recorder emits structured audit events for every state-changing operation.
// Events always land in the service log; when a producer is configured they
// are additionally mirrored to Kafka. Extra payloads pass through the
// redactor so identifiers never reach the trail. Auditing is best-effort and
// never fails the operation being audited.
type Recorder struct {
	producer *kafka.Producer
	redactor *redaction.Redactor
}

func NewRecorder(producer *kafka.Producer, redactor *redaction.Redactor) *Recorder {
	return &Recorder{producer: producer, redactor: redactor}
}

func (r *Recorder) LogEvent(ctx context.Context, action, resourceType, resourceID string, extra map[string]interface{}) {
	extra = r.redactor.RedactMap(extra)
	event := models.AuditEvent{
		ID:           uuid.New().String(),
		Timestamp:    time.Now().UTC(),
		TenantID:     tenancy.FromContext(ctx),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Extra:        extra,
	}

	fields := map[string]interface{}{
		"audit_id":      event.ID,
		"tenant_id":     event.TenantID,
		"action":        event.Action,
		"resource_type": event.ResourceType,
	}
	if event.ResourceID != "" {
		fields["resource_id"] = event.ResourceID
	}
	for k, v := range extra {
		fields[k] = v
	}
	logger.Log.WithFields(fields).Info("audit event")

	if r.producer != nil {
		if err := r.producer.PublishAudit(ctx, event); err != nil {
			logger.Log.WithError(err).WithField("audit_id", event.ID).Warn("audit mirror publish failed")
		}
	}
}
