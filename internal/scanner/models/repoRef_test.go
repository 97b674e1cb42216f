package scannermodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		input string
		owner string
		repo  string
	}{
		{input: "acme/firmware", owner: "acme", repo: "firmware"},
		{input: "https://github.com/acme/firmware", owner: "acme", repo: "firmware"},
		{input: "https://github.com/acme/firmware.git", owner: "acme", repo: "firmware"},
		{input: "github.com/acme/firmware/", owner: "acme", repo: "firmware"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := ParseRepoRef(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.owner, ref.Owner)
			assert.Equal(t, tt.repo, ref.Repo)
		})
	}
}

func TestParseRepoRef_Invalid(t *testing.T) {
	for _, input := range []string{"", "just-a-name", "https://github.com/", "/repo"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseRepoRef(input)
			assert.Error(t, err)
		})
	}
}
