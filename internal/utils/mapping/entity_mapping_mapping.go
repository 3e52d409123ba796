package mapping

import (
	"github.com/statement-sync/statement_sync_app/internal/core/domain"
	"github.com/statement-sync/statement_sync_app/internal/models"
)

// ToDomainEntityMapping converts a model EntityMapping to a domain EntityMapping
func ToDomainEntityMapping(m models.EntityMapping) domain.EntityMapping {
	return domain.EntityMapping{
		MappingID:     m.MappingID,
		UserID:        m.UserID,
		EntityType:    domain.EntityType(m.EntityType),
		SourceName:    m.SourceName,
		CanonicalName: m.CanonicalName,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEntityMappingSlice converts a slice of model EntityMappings to domain objects
func ToDomainEntityMappingSlice(ms []models.EntityMapping) []domain.EntityMapping {
	ds := make([]domain.EntityMapping, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEntityMapping(m)
	}
	return ds
}
