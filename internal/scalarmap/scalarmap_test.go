package scalarmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shyptr/nitrogql/config"
	"github.com/shyptr/nitrogql/internal/scalarmap"
)

func TestMapFallsBackToBuiltinDefaults(t *testing.T) {
	assert.Equal(t, "number", scalarmap.Map(nil, "Int", scalarmap.ResolverOutput))
	assert.Equal(t, "string", scalarmap.Map(nil, "ID", scalarmap.OperationInput))
}

func TestMapFallsBackToUnknownForUnmappedCustomScalar(t *testing.T) {
	assert.Equal(t, "unknown", scalarmap.Map(nil, "DateTime", scalarmap.ResolverOutput))
}

func TestMapFlatOverrideWinsAtEverySite(t *testing.T) {
	cfg := map[string]config.ScalarTypeConfig{"DateTime": {Flat: "string"}}
	assert.Equal(t, "string", scalarmap.Map(cfg, "DateTime", scalarmap.ResolverInput))
	assert.Equal(t, "string", scalarmap.Map(cfg, "DateTime", scalarmap.OperationOutput))
}

func TestMapSendReceiveShorthandAppliesToInputOutputSites(t *testing.T) {
	cfg := map[string]config.ScalarTypeConfig{"DateTime": {Send: "string", Receive: "Date"}}
	assert.Equal(t, "string", scalarmap.Map(cfg, "DateTime", scalarmap.ResolverInput))
	assert.Equal(t, "string", scalarmap.Map(cfg, "DateTime", scalarmap.OperationInput))
	assert.Equal(t, "Date", scalarmap.Map(cfg, "DateTime", scalarmap.ResolverOutput))
	assert.Equal(t, "Date", scalarmap.Map(cfg, "DateTime", scalarmap.OperationOutput))
}

func TestMapFourWayRecordOverridesShorthand(t *testing.T) {
	cfg := map[string]config.ScalarTypeConfig{"DateTime": {
		Send:           "ignored",
		ResolverInput:  "string",
		ResolverOutput: "Date",
	}}
	assert.Equal(t, "string", scalarmap.Map(cfg, "DateTime", scalarmap.ResolverInput))
	assert.Equal(t, "Date", scalarmap.Map(cfg, "DateTime", scalarmap.ResolverOutput))
}
