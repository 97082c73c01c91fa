package accessor

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// ConvertCase is one case from convert.yaml
type ConvertCase struct {
	Name  string `yaml:"name"`
	Class string `yaml:"class"`
	Sig   string `yaml:"sig"`
	Body  string `yaml:"body"`
	Want  string `yaml:"want"`
}

type convertFile struct {
	Tests []ConvertCase `yaml:"tests"`
}

func TestConvertYAML(t *testing.T) {
	data, err := os.ReadFile("../../testdata/convert.yaml")
	require.NoError(t, err)

	var file convertFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	require.NotEmpty(t, file.Tests)

	for _, tc := range file.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			u := newUnit(t, tc.Class)
			got := convertOne(t, u, function(t, tc.Sig, tc.Body))
			assert.Equal(t, strings.TrimRight(tc.Want, "\n"), render(got))
		})
	}
}
