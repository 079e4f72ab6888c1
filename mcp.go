package main

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ShopToolServer exposes the shop views as MCP tools over stdio, so terminal
// clients and assistants can drive the same pipeline the Telegram bot uses.
type ShopToolServer struct {
	shop *ShopClient
	conv Converter
}

// runMCP serves the shop views as MCP tools over stdio. No Telegram
// credentials are needed in this mode.
func runMCP() {
	s := &ShopToolServer{
		shop: NewShopClient(LoadShopAPIURL()),
		conv: NewConverter(),
	}

	mcpServer := server.NewMCPServer(
		"Fortnite Shop Assistant",
		"1.0.0",
		server.WithRecovery(),
	)

	s.registerTools(mcpServer)
	logger.Info().Str("transport", "stdio").Msg("Starting shop MCP server")

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatal().Err(err).Msg("MCP server error")
	}
}

// registerTools registers one MCP tool per view kind.
func (s *ShopToolServer) registerTools(mcpServer *server.MCPServer) {
	fullTool := mcp.NewTool("shop_full",
		mcp.WithDescription("Show the complete Fortnite item shop (daily and featured sections) with prices in V-Bucks and rubles"),
	)
	mcpServer.AddTool(fullTool, s.viewHandler(ViewFull))

	dailyTool := mcp.NewTool("shop_daily",
		mcp.WithDescription("Show only the daily section of the Fortnite item shop"),
	)
	mcpServer.AddTool(dailyTool, s.viewHandler(ViewDaily))

	featuredTool := mcp.NewTool("shop_featured",
		mcp.WithDescription("Show only the featured section of the Fortnite item shop"),
	)
	mcpServer.AddTool(featuredTool, s.viewHandler(ViewFeatured))

	statsTool := mcp.NewTool("shop_stats",
		mcp.WithDescription("Show shop statistics: item count, total and average price, most expensive item"),
	)
	mcpServer.AddTool(statsTool, s.viewHandler(ViewStats))

	topTool := mcp.NewTool("shop_top",
		mcp.WithDescription("Show the most expensive items in the shop, price descending"),
		mcp.WithNumber("limit",
			mcp.Description("Number of items to show (default: 5, max: 20)"),
		),
	)
	mcpServer.AddTool(topTool, s.handleTop)

	searchTool := mcp.NewTool("shop_search",
		mcp.WithDescription("Search shop items by name, case-insensitive substring match"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to look for in item names (e.g. 'Jin')"),
		),
	)
	mcpServer.AddTool(searchTool, s.handleSearch)

	randomTool := mcp.NewTool("shop_random",
		mcp.WithDescription("Pick one random item from the current shop"),
	)
	mcpServer.AddTool(randomTool, s.viewHandler(ViewRandom))

	exchangeTool := mcp.NewTool("shop_exchange",
		mcp.WithDescription("Show the fixed V-Bucks to ruble exchange rate with examples"),
	)
	mcpServer.AddTool(exchangeTool, s.viewHandler(ViewExchange))
}

// viewHandler builds the handler for a parameterless view kind.
func (s *ShopToolServer) viewHandler(kind ViewKind) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger.Info().Str("view", string(kind)).Msg("Rendering view for MCP tool")

		var snap *Snapshot
		if kind != ViewExchange {
			snap = s.shop.Fetch(ctx)
		}
		return mcp.NewToolResultText(Render(kind, snap, "", s.conv)), nil
	}
}

func (s *ShopToolServer) handleTop(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := topItemCount
	args := request.GetArguments()
	if limitVal, hasLimit := args["limit"]; hasLimit {
		if limitFloat, ok := limitVal.(float64); ok {
			limit = int(limitFloat)
			if limit > 20 {
				limit = 20
			}
			if limit < 1 {
				limit = topItemCount
			}
		}
	}

	snap := s.shop.Fetch(ctx)
	return mcp.NewToolResultText(FormatTop(snap, limit, s.conv)), nil
}

func (s *ShopToolServer) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		logger.Error().Err(err).Str("tool", "shop_search").Msg("Missing required query parameter")
		return mcp.NewToolResultError(err.Error()), nil
	}

	logger.Info().Str("tool", "shop_search").Str("query", query).Msg("Searching shop items")

	snap := s.shop.Fetch(ctx)
	return mcp.NewToolResultText(FormatSearch(snap, query, s.conv)), nil
}
