package pkg

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionID(t *testing.T) {
	// When: generating a batch of ids
	seen := make(map[string]struct{})
	previous := ""

	for range 100 {
		id := GenerateSessionID()

		// Then: every id is a valid, unique and increasing ULID
		_, err := ulid.ParseStrict(id)
		require.NoError(t, err)
		assert.NotContains(t, seen, id)
		assert.Greater(t, id, previous)

		seen[id] = struct{}{}
		previous = id
	}
}
