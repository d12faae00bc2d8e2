package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-note-keeper/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	// FieldID targets the client-generated unique identifier of a record.
	FieldID = "id"

	// FieldUserID targets the owner identifier of a record.
	FieldUserID = "user_id"

	// FieldType targets the collection discriminator (items, tasks, journal).
	FieldType = "type"

	// FieldTitle targets the human-readable title of a record.
	FieldTitle = "title"

	// FieldUpdatedAt targets the unix-millisecond conflict clock used for
	// last-write-wins arbitration.
	FieldUpdatedAt = "updated_at"

	// FieldRecords targets the record lists of a reconcile batch.
	FieldRecords = "records"
)

type EntityValidator struct {
}

func NewEntityValidator() Validator {
	return &EntityValidator{}
}

func (v *EntityValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Entity:
		return v.validateEntity(ctx, value, fields...)
	case *models.Entity:
		return v.validateEntity(ctx, *value, fields...)

	case models.ReconcileRequest:
		return v.validateReconcileRequest(ctx, value, fields...)
	case *models.ReconcileRequest:
		return v.validateReconcileRequest(ctx, *value, fields...)

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, obj)
	}
}

// validateEntity checks the requested fields of a single record. With no
// fields given, every known field is checked.
func (v *EntityValidator) validateEntity(_ context.Context, entity models.Entity, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldUserID, FieldType, FieldTitle, FieldUpdatedAt}
	}

	for _, field := range fields {
		switch field {
		case FieldID:
			if entity.ID == "" {
				return ErrInvalidID
			}
		case FieldUserID:
			if entity.UserID <= 0 {
				return ErrInvalidUserID
			}
		case FieldType:
			if !entity.Type.Valid() {
				return fmt.Errorf("%w: %q", ErrInvalidType, entity.Type)
			}
		case FieldTitle:
			if entity.Title == "" {
				return ErrEmptyTitle
			}
		case FieldUpdatedAt:
			if entity.UpdatedAt <= 0 {
				return ErrInvalidUpdatedAt
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}

	return nil
}

// validateReconcileRequest checks a reconcile batch: a non-empty record set
// when FieldRecords is requested, otherwise each record is validated with the
// given field scope.
func (v *EntityValidator) validateReconcileRequest(ctx context.Context, req models.ReconcileRequest, fields ...string) error {
	recordFields := make([]string, 0, len(fields))
	for _, field := range fields {
		if field == FieldRecords {
			if req.Len() == 0 {
				return ErrEmptyBatch
			}
			continue
		}
		recordFields = append(recordFields, field)
	}

	for _, group := range [][]models.Entity{req.Items, req.Tasks, req.Journal} {
		for _, record := range group {
			if err := v.validateEntity(ctx, record, recordFields...); err != nil {
				return fmt.Errorf("record %q: %w", record.ID, err)
			}
		}
	}

	return nil
}
