package agent

import "context"

// Source tags which side of the conversation produced a chunk.
type Source string

const (
	SourceAgent Source = "agent"
	SourceTool  Source = "tool"
)

// Chunk 一段流式响应. Err非空表示本轮对话失败, 且总是最后一个chunk
type Chunk struct {
	Source  Source
	Content string
	Err     error
}

// Runtime turns a user message into an asynchronous sequence of tagged
// response chunks. The returned channel is closed when the turn completes.
type Runtime interface {
	Ask(ctx context.Context, message, sessionID string) (<-chan Chunk, error)
}
