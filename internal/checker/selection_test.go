package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shyptr/nitrogql/typesystem"
)

func TestFragmentCompatibleObjectAgainstObject(t *testing.T) {
	user := &typesystem.Object{Name: "User"}
	post := &typesystem.Object{Name: "Post"}
	schema := &typesystem.Schema{}

	assert.True(t, FragmentCompatible(schema, user, user))
	assert.False(t, FragmentCompatible(schema, user, post))
}

func TestFragmentCompatibleObjectAgainstInterface(t *testing.T) {
	node := &typesystem.Interface{Name: "Node"}
	user := &typesystem.Object{Name: "User", Implements: []typesystem.NamedRef{{Name: "Node"}}}
	post := &typesystem.Object{Name: "Post"}
	schema := &typesystem.Schema{}

	assert.True(t, FragmentCompatible(schema, user, node))
	assert.False(t, FragmentCompatible(schema, post, node))
}

func TestFragmentCompatibleUnionsIntersect(t *testing.T) {
	a := &typesystem.Union{Name: "A", Members: []typesystem.NamedRef{{Name: "User"}, {Name: "Post"}}}
	b := &typesystem.Union{Name: "B", Members: []typesystem.NamedRef{{Name: "Post"}, {Name: "Comment"}}}
	c := &typesystem.Union{Name: "C", Members: []typesystem.NamedRef{{Name: "Comment"}}}
	schema := &typesystem.Schema{}

	assert.True(t, FragmentCompatible(schema, a, b))
	assert.False(t, FragmentCompatible(schema, a, c))
}

func TestFragmentCompatibleInterfaceAgainstInterfaceRequiresSharedImplementor(t *testing.T) {
	node := &typesystem.Interface{Name: "Node"}
	timestamped := &typesystem.Interface{Name: "Timestamped"}
	user := &typesystem.Object{
		Name:       "User",
		Implements: []typesystem.NamedRef{{Name: "Node"}, {Name: "Timestamped"}},
	}
	schema := &typesystem.Schema{
		Types:     map[string]typesystem.NamedType{"User": user},
		TypeOrder: []string{"User"},
	}

	assert.True(t, FragmentCompatible(schema, node, timestamped))

	onlyNode := &typesystem.Interface{Name: "OnlyNode"}
	emptySchema := &typesystem.Schema{Types: map[string]typesystem.NamedType{}}
	assert.False(t, FragmentCompatible(emptySchema, node, onlyNode))
}
