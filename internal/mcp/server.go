// Package mcp exposes mock interviews and archived transcripts over the Model
// Context Protocol.
package mcp

import (
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverName = "CareerCoachServer"

// ServerConfig holds the dependencies of the MCP server
type ServerConfig struct {
	Interviewer Interviewer
	Transcripts TranscriptStore // Optional: nil when archiving is disabled
	Logger      *slog.Logger    // Optional
	Version     string
}

// Server encapsulates the MCP server with all its dependencies
type Server struct {
	mcpServer   *mcp.Server
	interviewer Interviewer
	transcripts TranscriptStore
	logger      *slog.Logger
}

// NewServer creates an MCP server and registers its tools and resources
func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	s := &Server{
		interviewer: cfg.Interviewer,
		transcripts: cfg.Transcripts,
		logger:      cfg.Logger,
	}

	impl := &mcp.Implementation{
		Name:    serverName,
		Version: cfg.Version,
	}
	s.mcpServer = mcp.NewServer(impl, &mcp.ServerOptions{
		Instructions: ServerInstructions,
		Logger:       cfg.Logger,
	})

	s.registerTools()
	s.registerResources()

	return s
}

func (s *Server) registerTools() {
	interviewTools := NewInterviewTools(s.interviewer).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["start_interview"], interviewTools.Start)
	s.mcpServer.AddTool(ToolDefinitions["submit_answer"], interviewTools.Answer)
	s.mcpServer.AddTool(ToolDefinitions["clarify_question"], interviewTools.Clarify)
	s.mcpServer.AddTool(ToolDefinitions["finish_interview"], interviewTools.Finish)

	listTool := NewListTranscriptsTool(s.transcripts).WithLogger(s.logger)
	s.mcpServer.AddTool(ToolDefinitions["list_transcripts"], listTool.Call)
}

func (s *Server) registerResources() {
	if s.transcripts == nil {
		return
	}
	handler := NewTranscriptResourceHandler(s.transcripts, s.logger)
	for _, template := range ResourceTemplateDefinitions {
		s.mcpServer.AddResourceTemplate(template, handler.ReadResource)
	}
}

// MCPServer returns the underlying protocol server
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// Handler returns the streamable HTTP transport for mounting at /mcp
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, &mcp.StreamableHTTPOptions{
		JSONResponse: true,
	})
}
