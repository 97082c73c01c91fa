package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToCamel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"number_of_values", "numberOfValues"},
		{"len", "len"},
		{"_private_value", "_privateValue"},
		{"a__b", "aB"},
		{"already_Camel", "alreadyCamel"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToCamel(tt.in), tt.in)
	}
}

func TestToPascal(t *testing.T) {
	assert.Equal(t, "StepHumanReadable", ToPascal("step_human_readable"))
	assert.Equal(t, "G1bitmap", ToPascal("g1bitmap"))
}

func TestFunctionName(t *testing.T) {
	assert.Equal(t, "stepHumanReadable", FunctionName("get_step_human_readable"))
	assert.Equal(t, "nativeType", FunctionName("get_native_type"))
	assert.Equal(t, "long", FunctionName("set_long"))
	assert.Equal(t, "unpackLong", FunctionName("unpack_long"))
	assert.Equal(t, "get", FunctionName("get_"))
}

func TestClassName(t *testing.T) {
	assert.Equal(t, "BitData", ClassName("grib_accessor_class_bit"))
	assert.Equal(t, "StepHumanReadableData", ClassName("step_human_readable"))
	assert.Equal(t, "Uint8Data", ClassName("grib_accessor_uint8"))
}
