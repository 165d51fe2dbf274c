package model

import (
	"testing"

	"demand-genius/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testSchema(t *testing.T) *TenantSchema {
	t.Helper()
	funnelID := primitive.NewObjectID()
	personaID := primitive.NewObjectID()
	return &TenantSchema{
		TenantID: "tenant-a",
		Categories: map[string][]string{
			CategoryContentType: {"Blog", "Video"},
			CategoryTopics:      {"Sales", "Marketing"},
			"Funnel Stage":      {"TOFU", "MOFU", "BOFU"},
			"Persona":           {"CMO", "Developer"},
			CategoryLanguage:    {"en-US", "es-ES"},
		},
		FieldMappings: map[string]FieldMapping{
			CategoryContentType: {
				CategoryName:        CategoryContentType,
				SourceCollection:    CollectionSitemaps,
				FieldPath:           FieldContentType,
				RequiresJoin:        true,
				ReferenceCollection: CollectionContentTypes,
				JoinForeignField:    FieldID,
			},
			CategoryTopics: {
				CategoryName:        CategoryTopics,
				SourceCollection:    CollectionSitemaps,
				FieldPath:           FieldTopic,
				RequiresJoin:        true,
				ReferenceCollection: CollectionTopics,
				JoinForeignField:    FieldID,
			},
			"Funnel Stage": {
				CategoryName:        "Funnel Stage",
				SourceCollection:    CollectionSitemaps,
				FieldPath:           FieldCategoryAttribute,
				IsArray:             true,
				RequiresJoin:        true,
				ReferenceCollection: CollectionCategoryAttributes,
				JoinForeignField:    FieldID,
				CategoryFilterID:    funnelID,
			},
			"Persona": {
				CategoryName:        "Persona",
				SourceCollection:    CollectionSitemaps,
				FieldPath:           FieldCategoryAttribute,
				IsArray:             true,
				RequiresJoin:        true,
				ReferenceCollection: CollectionCategoryAttributes,
				JoinForeignField:    FieldID,
				CategoryFilterID:    personaID,
			},
			CategoryLanguage: {
				CategoryName:     CategoryLanguage,
				SourceCollection: CollectionSitemaps,
				FieldPath:        FieldGeoFocus,
			},
		},
		Collections: DefaultCollections(),
	}
}

func TestParseTenantID(t *testing.T) {
	oid := primitive.NewObjectID()

	parsed, err := ParseTenantID(oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, oid, parsed)

	for _, bad := range []string{"", "tenant-a", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := ParseTenantID(bad)
		assert.ErrorIs(t, err, errors.ErrInvalidTenantID, bad)
	}
}

func TestFieldMappingValidate(t *testing.T) {
	valid := FieldMapping{
		CategoryName:        CategoryContentType,
		SourceCollection:    CollectionSitemaps,
		FieldPath:           FieldContentType,
		RequiresJoin:        true,
		ReferenceCollection: CollectionContentTypes,
		JoinForeignField:    FieldID,
	}
	assert.NoError(t, valid.Validate())

	noCategory := valid
	noCategory.CategoryName = ""
	assert.Error(t, noCategory.Validate())

	noPath := valid
	noPath.FieldPath = ""
	assert.Error(t, noPath.Validate())

	joinWithoutTarget := valid
	joinWithoutTarget.ReferenceCollection = ""
	assert.Error(t, joinWithoutTarget.Validate())

	directScalar := FieldMapping{
		CategoryName:     CategoryLanguage,
		SourceCollection: CollectionSitemaps,
		FieldPath:        FieldGeoFocus,
	}
	assert.NoError(t, directScalar.Validate())
}

func TestFieldMappingParentRestriction(t *testing.T) {
	s := testSchema(t)

	funnel, ok := s.Mapping("Funnel Stage")
	require.True(t, ok)
	assert.True(t, funnel.IsParentRestricted())

	contentType, ok := s.Mapping(CategoryContentType)
	require.True(t, ok)
	assert.False(t, contentType.IsParentRestricted())

	language, ok := s.Mapping(CategoryLanguage)
	require.True(t, ok)
	assert.False(t, language.IsParentRestricted())
}

func TestFieldMappingLookupAlias(t *testing.T) {
	m := FieldMapping{FieldPath: FieldContentType}
	assert.Equal(t, "contentTypeInfo", m.LookupAlias())
}

func TestTenantSchemaCategoryNames(t *testing.T) {
	s := testSchema(t)
	assert.Equal(t, []string{
		CategoryContentType,
		"Funnel Stage",
		CategoryLanguage,
		"Persona",
		CategoryTopics,
	}, s.CategoryNames())
	assert.True(t, s.HasCategory("Persona"))
	assert.False(t, s.HasCategory("Region"))
}

func TestTenantSchemaJoinMappings(t *testing.T) {
	s := testSchema(t)
	joins := s.JoinMappings()

	// Funnel Stage and Persona share the categoryAttribute path and must
	// produce a single lookup.
	paths := make([]string, 0, len(joins))
	for _, m := range joins {
		paths = append(paths, m.FieldPath)
	}
	assert.Equal(t, []string{FieldCategoryAttribute, FieldContentType, FieldTopic}, paths)
}

func TestTenantSchemaCategoryNameForAttribute(t *testing.T) {
	s := testSchema(t)
	funnel, _ := s.Mapping("Funnel Stage")

	name, ok := s.CategoryNameForAttribute(funnel.CategoryFilterID)
	require.True(t, ok)
	assert.Equal(t, "Funnel Stage", name)

	_, ok = s.CategoryNameForAttribute(primitive.NewObjectID())
	assert.False(t, ok)

	_, ok = s.CategoryNameForAttribute(primitive.NilObjectID)
	assert.False(t, ok)
}
