package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServeCmd_AddrFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
	assert.Nil(t, mcpServeCmd.Flags().Lookup("port"))
}

func TestMCPServeCmd_RequiresServices(t *testing.T) {
	setupTestServices(t)
	collectionService = nil

	_, err := execute(t, "mcp", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "collection service is required")
}

func TestMCPServeCmd_BadAddr(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "mcp", "serve", "--addr", "not-an-address")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on not-an-address")
}

func TestMCPToolsCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "mcp", "tools")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	var names []string
	for _, line := range lines {
		names = append(names, strings.Fields(line)[0])
	}
	assert.ElementsMatch(t, []string{"search", "get_chunks", "vector_stats"}, names)
	assert.Contains(t, out, "Semantic search over the chunks")
}
