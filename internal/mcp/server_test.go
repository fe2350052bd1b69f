package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/careercoach/internal/interview"
	"github.com/kfreiman/careercoach/internal/storage"
)

type scriptedGenerator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt string, _ int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.calls++
	if strings.Contains(prompt, "feedback") {
		return fmt.Sprintf("feedback %d", g.calls), nil
	}
	return fmt.Sprintf("question %d", g.calls), nil
}

type testEnv struct {
	gen     *scriptedGenerator
	manager *interview.Manager
	archive *storage.Archive
	server  *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	archive, err := storage.NewArchive(storage.ArchiveConfig{
		BasePath:   "/data",
		FileSystem: storage.NewMemMapFileSystem(),
		Retry:      storage.RetryConfig{MaxAttempts: 1},
	})
	require.NoError(t, err)

	gen := &scriptedGenerator{}
	manager, err := interview.NewManager(interview.ManagerConfig{
		Generator: gen,
		Archiver:  archive,
		Logger:    logger,
	})
	require.NoError(t, err)

	return &testEnv{
		gen:     gen,
		manager: manager,
		archive: archive,
		server: NewServer(ServerConfig{
			Interviewer: manager,
			Transcripts: archive,
			Logger:      logger,
			Version:     "test",
		}),
	}
}

func callRequest(t *testing.T, args map[string]any) *mcp.CallToolRequest {
	t.Helper()
	data, err := json.Marshal(args)
	require.NoError(t, err)
	return &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Arguments: json.RawMessage(data),
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].(*mcp.TextContent).Text), &out))
	return out
}

func TestInterviewTools_FullInterview(t *testing.T) {
	env := newTestEnv(t)
	tools := NewInterviewTools(env.manager)
	ctx := context.Background()

	res, err := tools.Start(ctx, callRequest(t, map[string]any{
		"job_role":    "Go Developer",
		"resume_text": "Five years of Go",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	started := resultJSON(t, res)
	sessionID, _ := started["session_id"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, "basic", started["stage"])
	assert.Equal(t, "question 1", started["question"])

	res, err = tools.Clarify(ctx, callRequest(t, map[string]any{"session_id": sessionID}))
	require.NoError(t, err)
	assert.Equal(t, "question 2", resultJSON(t, res)["question"])

	var last map[string]any
	for i := 0; i < interview.StageCount(); i++ {
		res, err = tools.Answer(ctx, callRequest(t, map[string]any{
			"session_id": sessionID,
			"answer":     fmt.Sprintf("answer %d", i+1),
		}))
		require.NoError(t, err)
		require.False(t, res.IsError)
		last = resultJSON(t, res)
	}

	assert.Equal(t, true, last["done"])
	assert.Contains(t, last["feedback"], "feedback")
	assert.True(t, env.archive.Exists(sessionID))
}

func TestInterviewTools_Errors(t *testing.T) {
	env := newTestEnv(t)
	tools := NewInterviewTools(env.manager)
	ctx := context.Background()

	t.Run("missing field", func(t *testing.T) {
		res, err := tools.Start(ctx, callRequest(t, map[string]any{"job_role": "Go Developer"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(*mcp.TextContent).Text, interview.CodeMissingField)
	})

	t.Run("unknown session", func(t *testing.T) {
		for _, call := range []func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error){
			tools.Answer, tools.Clarify, tools.Finish,
		} {
			res, err := call(ctx, callRequest(t, map[string]any{"session_id": "missing", "answer": "x"}))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.Contains(t, res.Content[0].(*mcp.TextContent).Text, interview.CodeUnknownSession)
		}
	})

	t.Run("generation failure", func(t *testing.T) {
		env.gen.mu.Lock()
		env.gen.err = fmt.Errorf("upstream down")
		env.gen.mu.Unlock()
		defer func() {
			env.gen.mu.Lock()
			env.gen.err = nil
			env.gen.mu.Unlock()
		}()

		res, err := tools.Start(ctx, callRequest(t, map[string]any{"job_role": "r", "resume_text": "x"}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(*mcp.TextContent).Text, interview.CodeGenerationFailed)
	})

	t.Run("malformed arguments", func(t *testing.T) {
		req := &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(`[1,2]`)}}
		_, err := tools.Finish(ctx, req)
		assert.Error(t, err)
	})
}

func TestListTranscriptsTool(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled archive", func(t *testing.T) {
		res, err := NewListTranscriptsTool(nil).Call(ctx, callRequest(t, map[string]any{}))
		require.NoError(t, err)
		assert.Contains(t, res.Content[0].(*mcp.TextContent).Text, "disabled")
	})

	t.Run("empty archive", func(t *testing.T) {
		env := newTestEnv(t)
		res, err := NewListTranscriptsTool(env.archive).Call(ctx, callRequest(t, map[string]any{}))
		require.NoError(t, err)
		assert.Equal(t, "No archived interviews found.", res.Content[0].(*mcp.TextContent).Text)
	})

	t.Run("lists finished interviews", func(t *testing.T) {
		env := newTestEnv(t)
		start, err := env.manager.StartSession(ctx, "Data Engineer", "SQL and Spark")
		require.NoError(t, err)
		_, err = env.manager.FinishSession(ctx, start.SessionID)
		require.NoError(t, err)

		res, err := NewListTranscriptsTool(env.archive).Call(ctx, callRequest(t, map[string]any{}))
		require.NoError(t, err)
		text := res.Content[0].(*mcp.TextContent).Text
		assert.Contains(t, text, "Archived Interviews (1)")
		assert.Contains(t, text, "interview://"+start.SessionID)
		assert.Contains(t, text, "Data Engineer")
		assert.Contains(t, text, "finished")
	})
}

func TestServer_OverInMemoryTransport(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start, err := env.manager.StartSession(ctx, "SRE", "On-call veteran, reach me at sre@example.com")
	require.NoError(t, err)
	_, err = env.manager.FinishSession(ctx, start.SessionID)
	require.NoError(t, err)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	_, err = env.server.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"start_interview", "submit_answer", "clarify_question", "finish_interview", "list_transcripts"}, names)

	res, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "interview://" + start.SessionID})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "text/markdown", res.Contents[0].MIMEType)
	assert.Contains(t, res.Contents[0].Text, "# Interview: SRE")
	assert.NotContains(t, res.Contents[0].Text, "sre@example.com")

	_, err = session.ReadResource(ctx, &mcp.ReadResourceParams{URI: "interview://does-not-exist"})
	assert.Error(t, err)

	call, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "start_interview",
		Arguments: map[string]any{"job_role": "SRE", "resume_text": "Kubernetes"},
	})
	require.NoError(t, err)
	assert.False(t, call.IsError)
}
