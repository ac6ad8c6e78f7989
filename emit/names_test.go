package emit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shyptr/nitrogql/emit"
)

func TestOperationTypeNameAppliesSuffix(t *testing.T) {
	assert.Equal(t, "GetUserQuery", emit.OperationTypeName("getUser", "Query"))
}

func TestVariablesTypeNameAppliesSuffix(t *testing.T) {
	assert.Equal(t, "GetUserVariables", emit.VariablesTypeName("getUser", "Variables"))
}

func TestFragmentTypeNameAppendsFragmentSuffix(t *testing.T) {
	assert.Equal(t, "UserFieldsFragment", emit.FragmentTypeName("userFields"))
}
