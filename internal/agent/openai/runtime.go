package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/songzhibin97/coinsage/internal/actions"
	"github.com/songzhibin97/coinsage/internal/agent"
	"github.com/songzhibin97/coinsage/internal/models"
)

const systemPrompt = "You are a crypto market assistant. You can analyze coin " +
	"categories, look up keyword trends and invest wallet funds through the " +
	"tools provided. Always report tool failures back to the user instead of " +
	"guessing, and never invent market data."

// 单轮对话允许的最大工具调用轮数, 防止模型自我循环
const maxToolRounds = 8

// Runtime implements agent.Runtime with OpenAI function calling. Each tool
// call is dispatched through the action registry and emitted as a "tool"
// chunk; the model's own text arrives as streamed "agent" chunks.
type Runtime struct {
	client   *openai.Client
	model    string
	registry *actions.Registry
	logger   *slog.Logger

	sessionsMu sync.Mutex
	sessions   map[string][]openai.ChatCompletionMessage // 按会话保存的历史
}

// NewRuntime creates an OpenAI-backed runtime over the given registry.
func NewRuntime(apiKey, model string, registry *actions.Registry, logger *slog.Logger) *Runtime {
	client := openai.NewClient(apiKey)
	if model == "" {
		model = openai.GPT4o
	}
	return &Runtime{
		client:   client,
		model:    model,
		registry: registry,
		logger:   logger,
		sessions: make(map[string][]openai.ChatCompletionMessage),
	}
}

// Ask implements agent.Runtime.
func (r *Runtime) Ask(ctx context.Context, message, sessionID string) (<-chan agent.Chunk, error) {
	if message == "" {
		return nil, fmt.Errorf("message must not be empty")
	}

	out := make(chan agent.Chunk, 16)
	go r.run(ctx, message, sessionID, out)
	return out, nil
}

func (r *Runtime) run(ctx context.Context, message, sessionID string, out chan<- agent.Chunk) {
	defer close(out)

	history := r.loadSession(sessionID)
	history = append(history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	for round := 0; round < maxToolRounds; round++ {
		content, toolCalls, err := r.streamCompletion(ctx, history, out)
		if err != nil {
			// 失败的轮次也要保存历史: 之前轮次的工具调用可能已产生副作用,
			// 丢掉记录会让后续会话对已发生的swap一无所知
			r.saveSession(sessionID, history)
			out <- agent.Chunk{Source: agent.SourceAgent, Err: err}
			return
		}

		if len(toolCalls) == 0 {
			history = append(history, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: content,
			})
			r.saveSession(sessionID, history)
			return
		}

		history = append(history, openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			Content:   content,
			ToolCalls: toolCalls,
		})

		// 每个工具调用全部执行完再进入下一轮
		for _, tc := range toolCalls {
			result := r.invokeTool(ctx, tc)
			out <- agent.Chunk{Source: agent.SourceTool, Content: result}
			history = append(history, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}

	r.saveSession(sessionID, history)
	out <- agent.Chunk{
		Source: agent.SourceAgent,
		Err:    fmt.Errorf("gave up after %d tool rounds in one turn", maxToolRounds),
	}
}

// streamCompletion runs one model turn, forwarding text deltas as agent
// chunks and assembling any tool call deltas into complete calls.
func (r *Runtime) streamCompletion(
	ctx context.Context,
	history []openai.ChatCompletionMessage,
	out chan<- agent.Chunk,
) (string, []openai.ToolCall, error) {
	messages := append([]openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	}}, history...)

	stream, err := r.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Messages:    messages,
		Tools:       r.registry.OpenAITools(),
		Temperature: 0.3,
	})
	if err != nil {
		return "", nil, fmt.Errorf("openai api error: %w", err)
	}
	defer stream.Close()

	var content string
	var toolCalls []openai.ToolCall

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("openai stream error: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}

		delta := resp.Choices[0].Delta
		if delta.Content != "" {
			content += delta.Content
			out <- agent.Chunk{Source: agent.SourceAgent, Content: delta.Content}
		}

		// 工具调用以增量形式到达, 按index拼装
		for _, tc := range delta.ToolCalls {
			idx := 0
			if tc.Index != nil {
				idx = *tc.Index
			}
			for len(toolCalls) <= idx {
				toolCalls = append(toolCalls, openai.ToolCall{Type: openai.ToolTypeFunction})
			}
			if tc.ID != "" {
				toolCalls[idx].ID = tc.ID
			}
			if tc.Function.Name != "" {
				toolCalls[idx].Function.Name = tc.Function.Name
			}
			toolCalls[idx].Function.Arguments += tc.Function.Arguments
		}
	}

	return content, toolCalls, nil
}

// invokeTool dispatches one tool call through the registry. Failures come
// back as text so the model can relay them; nothing raises past here.
func (r *Runtime) invokeTool(ctx context.Context, tc openai.ToolCall) string {
	var params map[string]any
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &params); err != nil {
			return fmt.Sprintf("error: malformed arguments for %s: %v", tc.Function.Name, err)
		}
	}

	resp, err := r.registry.Invoke(ctx, models.ActionRequest{
		Name:       tc.Function.Name,
		Parameters: params,
	})
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}

	encoded, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf("error: failed to encode result of %s: %v", tc.Function.Name, err)
	}
	return string(encoded)
}

func (r *Runtime) loadSession(sessionID string) []openai.ChatCompletionMessage {
	r.sessionsMu.Lock()
	defer r.sessionsMu.Unlock()
	history := r.sessions[sessionID]
	return append([]openai.ChatCompletionMessage(nil), history...)
}

func (r *Runtime) saveSession(sessionID string, history []openai.ChatCompletionMessage) {
	r.sessionsMu.Lock()
	defer r.sessionsMu.Unlock()
	r.sessions[sessionID] = history
}
