package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/jploot/picomaven/pkg/errors"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Coordinate
		wantErr bool
	}{
		{
			name:  "basic coordinate",
			input: "org.example:lib:1.0",
			want:  Coordinate{Group: "org.example", Artifact: "lib", Version: "1.0"},
		},
		{
			name:  "with classifier",
			input: "org.example:lib:1.0:sources",
			want:  Coordinate{Group: "org.example", Artifact: "lib", Version: "1.0", Classifier: "sources"},
		},
		{
			name:    "too few parts",
			input:   "org.example:lib",
			wantErr: true,
		},
		{
			name:    "too many parts",
			input:   "a:b:c:d:e",
			wantErr: true,
		},
		{
			name:    "empty version",
			input:   "a:b:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, pkgerrors.ErrInvalidCoordinate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			// String is the exact inverse
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestCoordinateIsSnapshot(t *testing.T) {
	assert.True(t, Coordinate{Group: "g", Artifact: "a", Version: "1.0-SNAPSHOT"}.IsSnapshot())
	assert.False(t, Coordinate{Group: "g", Artifact: "a", Version: "1.0"}.IsSnapshot())
	assert.False(t, Coordinate{Group: "g", Artifact: "a", Version: "1.0-snapshot"}.IsSnapshot())
}
