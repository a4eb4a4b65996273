package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/usecase/audit"
)

// AuditLogResponse represents a single audit entry in API responses.
type AuditLogResponse struct {
	ID            string    `json:"id"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Action        string    `json:"action"`
	ChangedFields []string  `json:"changed_fields"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuditLogListResponse represents the response for listing audit entries.
type AuditLogListResponse struct {
	Entries []AuditLogResponse `json:"entries"`
}

// ToAuditLogListResponse converts a ListAuditLogsOutput to AuditLogListResponse.
func ToAuditLogListResponse(output *audit.ListAuditLogsOutput) AuditLogListResponse {
	entries := make([]AuditLogResponse, len(output.Entries))
	for i, entry := range output.Entries {
		fields := entry.ChangedFields
		if fields == nil {
			fields = []string{}
		}
		entries[i] = AuditLogResponse{
			ID:            entry.ID.String(),
			EntityType:    entry.EntityType,
			EntityID:      entry.EntityID.String(),
			Action:        string(entry.Action),
			ChangedFields: fields,
			CreatedAt:     entry.CreatedAt,
		}
	}
	return AuditLogListResponse{Entries: entries}
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
