package service

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/skilletworks/prepline/internal/mcp/domain"
)

func registerPlaytestTools(mcpServer *mcp.Server, manager *domain.Manager) {
	mcp.AddTool(mcpServer, domain.SessionStartTool(), domain.SessionStartHandler(manager))
	mcp.AddTool(mcpServer, domain.SessionTickTool(), domain.SessionTickHandler(manager))
	mcp.AddTool(mcpServer, domain.SessionPlaceTool(), domain.SessionPlaceHandler(manager))
	mcp.AddTool(mcpServer, domain.SessionStateTool(), domain.SessionStateHandler(manager))
	mcp.AddTool(mcpServer, domain.SessionReportTool(), domain.SessionReportHandler(manager))
}
