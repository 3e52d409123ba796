package models

// EntityType is the kind of free-text entity a mapping canonicalizes.
type EntityType string

const (
	EntityTypePerson EntityType = "PERSON"
	EntityTypeStore  EntityType = "STORE"
)

// EntityMapping mirrors the entity_mappings table. The import pipeline only
// reads this table; mapping CRUD is owned by another service.
type EntityMapping struct {
	MappingID     string     `json:"mappingID" db:"mapping_id"`
	UserID        string     `json:"userID" db:"user_id"`
	EntityType    EntityType `json:"entityType" db:"entity_type"`
	SourceName    string     `json:"sourceName" db:"source_name"`
	CanonicalName string     `json:"canonicalName" db:"canonical_name"`
	AuditFields
}
