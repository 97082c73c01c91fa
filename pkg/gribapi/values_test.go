package gribapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransform(t *testing.T) {
	tests := []struct {
		in, want string
		ok       bool
	}{
		{"GRIB_SUCCESS", "GribStatus::SUCCESS", true},
		{"GRIB_7777_NOT_FOUND", "GribStatus::VALUE_7777_NOT_FOUND", true},
		{"GRIB_TYPE_LONG", "GribType::LONG", true},
		{"GRIB_ACCESSOR_FLAG_READ_ONLY", "toInt(GribAccessorFlag::READ_ONLY)", true},
		{"GRIB_NOT_A_THING", "", false},
		{"count", "", false},
	}
	for _, tt := range tests {
		got, ok := Transform(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestConvertText(t *testing.T) {
	assert.Equal(t,
		"if (err != GribStatus::SUCCESS) return GribStatus::DECODING_ERROR;",
		ConvertText("if (err != GRIB_SUCCESS) return GRIB_DECODING_ERROR;"))
	assert.Equal(t,
		"flags = toInt(GribAccessorFlag::READ_ONLY) | toInt(GribAccessorFlag::DUMP);",
		ConvertText("flags = GRIB_ACCESSOR_FLAG_READ_ONLY | GRIB_ACCESSOR_FLAG_DUMP;"))
	assert.Equal(t, "x = GRIB_UNKNOWN_THING + MY_GRIB_SUCCESS;", ConvertText("x = GRIB_UNKNOWN_THING + MY_GRIB_SUCCESS;"))
}

func TestIsStatus(t *testing.T) {
	assert.True(t, IsStatus("GribStatus::SUCCESS"))
	assert.False(t, IsStatus("GribType::LONG"))
	v, ok := Transformer{}.TransformValue("GRIB_TYPE_STRING")
	assert.True(t, ok)
	assert.Equal(t, "GribType::STRING", v)
}
