package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/wealth-sprint/internal/types"
)

func TestResolveID(t *testing.T) {
	ids := []string{"ab12-x", "ab34-y", "cd56-z"}

	id, err := resolveID("cd", ids)
	require.NoError(t, err)
	assert.Equal(t, "cd56-z", id)

	id, err = resolveID("ab12-x", ids)
	require.NoError(t, err)
	assert.Equal(t, "ab12-x", id)

	_, err = resolveID("ab", ids)
	assert.ErrorContains(t, err, "ambiguous")

	_, err = resolveID("zz", ids)
	assert.ErrorIs(t, err, types.ErrUnknownEntity)
}

func TestParseMoney(t *testing.T) {
	d, err := parseMoney("1,25,000.50")
	require.NoError(t, err)
	assert.Equal(t, "125000.5", d.String())

	_, err = parseMoney("lots")
	assert.Error(t, err)
}
