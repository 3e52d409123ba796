package domain

// EntityType is the kind of free-text entity a mapping canonicalizes.
type EntityType string

const (
	EntityTypePerson EntityType = "PERSON"
	EntityTypeStore  EntityType = "STORE"
)

// EntityMapping maps one of a user's free-text store/person spellings to the
// canonical name chosen by the user. Mapping CRUD lives outside this service;
// the import pipeline consumes mappings read-only.
type EntityMapping struct {
	MappingID     string     `json:"mappingID"`
	UserID        string     `json:"userID"`
	EntityType    EntityType `json:"entityType"`
	SourceName    string     `json:"sourceName"`
	CanonicalName string     `json:"canonicalName"`
	AuditFields
}
