package mailparse_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardpost/wardpost/internal/mailparse"
)

func TestLookupSource(t *testing.T) {
	mappings := []mailparse.SourceMapping{
		mailparse.NewSourceMapping("%@ward43.org", "src-ward43"),
		mailparse.NewSourceMapping("newsletter@ward01.example.com", "src-ward01"),
		mailparse.NewSourceMapping("alderman.smith@citycouncil.example.com", "src-smith"),
	}

	testCases := []struct {
		name           string
		fromEmail      string
		expectedSource string
		expectedFound  bool
	}{
		{
			name:           "wildcard domain match",
			fromEmail:      "updates@ward43.org",
			expectedSource: "src-ward43",
			expectedFound:  true,
		},
		{
			name:           "wildcard match is case insensitive",
			fromEmail:      "Updates@Ward43.ORG",
			expectedSource: "src-ward43",
			expectedFound:  true,
		},
		{
			name:           "exact match",
			fromEmail:      "newsletter@ward01.example.com",
			expectedSource: "src-ward01",
			expectedFound:  true,
		},
		{
			name:           "pattern is substring of address",
			fromEmail:      "Ward 1 News <newsletter@ward01.example.com>",
			expectedSource: "src-ward01",
			expectedFound:  true,
		},
		{
			name:           "address is substring of pattern",
			fromEmail:      "alderman.smith@citycouncil.example",
			expectedSource: "src-smith",
			expectedFound:  true,
		},
		{
			name:          "no match",
			fromEmail:     "spam@unrelated.example.com",
			expectedFound: false,
		},
		{
			name:          "wildcard dot is literal",
			fromEmail:     "updates@ward43xorg",
			expectedFound: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sourceID, found := mailparse.LookupSource(tc.fromEmail, mappings)

			assert.Equal(t, tc.expectedFound, found)
			if tc.expectedFound {
				assert.Equal(t, tc.expectedSource, sourceID)
			}
		})
	}
}

func TestLookupSource_FirstMatchWins(t *testing.T) {
	mappings := []mailparse.SourceMapping{
		mailparse.NewSourceMapping("%@ward43.org", "src-first"),
		mailparse.NewSourceMapping("updates@ward43.org", "src-second"),
	}

	sourceID, found := mailparse.LookupSource("updates@ward43.org", mappings)

	require.True(t, found)
	assert.Equal(t, "src-first", sourceID)
}

func TestParseMappings(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		document := `[
			{"emailPattern": "%@ward43.org", "sourceId": "src-ward43"},
			{"emailPattern": "news@ward01.example.com", "sourceId": "src-ward01"}
		]`

		mappings, err := mailparse.ParseMappings([]byte(document))

		require.NoError(t, err)
		require.Len(t, mappings, 2)
		assert.Equal(t, "%@ward43.org", mappings[0].GetEmailPattern())
		assert.Equal(t, "src-ward43", mappings[0].GetSourceID())
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := mailparse.ParseMappings([]byte(`{not an array`))

		require.Error(t, err)
		var mappingErr *mailparse.MappingError
		require.True(t, errors.As(err, &mappingErr))
		assert.Equal(t, mailparse.ErrCauseBadMappingJSON, mappingErr.Cause)
	})

	t.Run("entry missing source id", func(t *testing.T) {
		_, err := mailparse.ParseMappings([]byte(`[{"emailPattern": "%@ward43.org"}]`))

		require.Error(t, err)
		var mappingErr *mailparse.MappingError
		require.True(t, errors.As(err, &mappingErr))
		assert.Equal(t, mailparse.ErrCauseBadPattern, mappingErr.Cause)
	})
}

func TestLoadMappingFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sources.json")
		document := `[{"emailPattern": "%@ward43.org", "sourceId": "src-ward43"}]`
		require.NoError(t, os.WriteFile(path, []byte(document), 0o644))

		mappings, err := mailparse.LoadMappingFile(path)

		require.NoError(t, err)
		assert.Len(t, mappings, 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := mailparse.LoadMappingFile(filepath.Join(t.TempDir(), "absent.json"))

		require.Error(t, err)
		var mappingErr *mailparse.MappingError
		require.True(t, errors.As(err, &mappingErr))
		assert.Equal(t, mailparse.ErrCauseBadMappingFile, mappingErr.Cause)
	})
}
