package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() ToolSpec {
	return ToolSpec{
		Name: "test_tool",
		Parameters: []ParameterSpec{
			{Name: "target", Kind: KindString, Required: true},
			{Name: "location", Kind: KindString, Default: "eastus"},
			{Name: "os_type", Kind: KindEnum, Default: "linux", AllowedValues: []string{"linux", "windows"}},
			{Name: "count", Kind: KindInteger, Default: 5},
			{Name: "note", Kind: KindString},
		},
	}
}

func requireValidationError(t *testing.T, err error, code ValidationCode, param string) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, code, verr.Code)
	assert.Equal(t, param, verr.Parameter)
	return verr
}

func TestValidateDefaultsSubstituted(t *testing.T) {
	args, err := Validate(testSpec(), map[string]any{"target": "web01"})
	require.NoError(t, err)

	assert.Equal(t, "web01", args.String("target"))
	assert.Equal(t, "eastus", args.String("location"))
	assert.Equal(t, "linux", args.String("os_type"))
	assert.Equal(t, 5, args.Int("count"))

	// Optional without default: absence is legal and stays absent.
	_, present := args["note"]
	assert.False(t, present)
}

func TestValidateMissingRequired(t *testing.T) {
	_, err := Validate(testSpec(), map[string]any{})
	requireValidationError(t, err, MissingRequired, "target")
}

func TestValidateUnknownParameterRejected(t *testing.T) {
	_, err := Validate(testSpec(), map[string]any{"target": "web01", "bogus": "x"})
	requireValidationError(t, err, UnknownParameter, "bogus")
}

func TestValidateEnumOutOfSet(t *testing.T) {
	_, err := Validate(testSpec(), map[string]any{"target": "web01", "os_type": "plan9"})
	verr := requireValidationError(t, err, InvalidEnum, "os_type")
	assert.Equal(t, []string{"linux", "windows"}, verr.Allowed)
}

func TestValidateNoCrossKindCoercion(t *testing.T) {
	// A string is never parsed as an integer.
	_, err := Validate(testSpec(), map[string]any{"target": "web01", "count": "7"})
	requireValidationError(t, err, InvalidType, "count")

	// A number is never accepted for a string.
	_, err = Validate(testSpec(), map[string]any{"target": 42})
	requireValidationError(t, err, InvalidType, "target")
}

func TestValidateIntegerEncodings(t *testing.T) {
	// JSON decoding hands integers over as float64.
	args, err := Validate(testSpec(), map[string]any{"target": "web01", "count": float64(9)})
	require.NoError(t, err)
	assert.Equal(t, 9, args.Int("count"))

	_, err = Validate(testSpec(), map[string]any{"target": "web01", "count": 9.5})
	requireValidationError(t, err, InvalidType, "count")
}
