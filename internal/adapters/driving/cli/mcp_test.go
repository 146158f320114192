package cli

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/copilot-cli/internal/adapters/driving/mcp"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)

	useHTTP := mcpServeCmd.Flags().Lookup("http")
	require.NotNil(t, useHTTP)
	assert.Equal(t, "false", useHTTP.DefValue)
}

func TestMCPServeCmd_RequiresConversationFactory(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	svc.NewConversation = nil

	_, err := execute("mcp", "serve")

	require.Error(t, err)
	assert.ErrorIs(t, err, mcp.ErrMissingConversationNew)
}

func TestMCPServeCmd_ServesHTTPUntilCancelled(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	port, err := mcp.FindAvailablePort(mcp.DefaultPortStart+20, mcp.DefaultPortEnd+100)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	out, err := executeContext(ctx, "mcp", "serve", "--port", fmt.Sprint(port))

	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("MCP server listening on http://localhost:%d", port))
}
