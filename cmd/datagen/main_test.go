package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/dronepath/internal/source"
)

func TestDatagenStdout(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"-n", "8", "--seed", "3", "-f", "json"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	g, err := source.Decode(strings.NewReader(out.String()), source.FormatJSON)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 8)
	assert.Equal(t, "H", g.Nodes[7].Label)
}

func TestClampProbability(t *testing.T) {
	assert.Equal(t, 0.0, clampProbability(-1))
	assert.Equal(t, 1.0, clampProbability(3))
	assert.Equal(t, 0.5, clampProbability(0.5))
}
