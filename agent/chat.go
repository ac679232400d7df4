package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/avives/mall-dining-rag/tools"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/memory/sqlite3"
)

const maxToolRounds = 5

// Chat runs the tool-calling conversation loop around the chat model.
type Chat struct {
	llm     *ollama.LLM
	toolkit *tools.Toolkit
	history *sqlite3.SqliteChatMessageHistory
	system  func() string

	mu       sync.Mutex
	messages []llms.MessageContent
}

func NewChat(llm *ollama.LLM, toolkit *tools.Toolkit, history *sqlite3.SqliteChatMessageHistory, system func() string) *Chat {
	return &Chat{
		llm:     llm,
		toolkit: toolkit,
		history: history,
		system:  system,
	}
}

// Turn sends one user message through the model, dispatching tool calls to
// the toolkit until the model produces a final text answer. Streamed chunks
// of the final answer go through stream when it is non-nil.
func (c *Chat) Turn(ctx context.Context, userInput string, stream func(chunk []byte) error) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, llms.TextParts(llms.ChatMessageTypeHuman, userInput))

	opts := []llms.CallOption{
		llms.WithTools(tools.Definitions()),
	}
	if stream != nil {
		opts = append(opts, llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return stream(chunk)
		}))
	}

	for round := 0; round < maxToolRounds; round++ {
		prompt := make([]llms.MessageContent, 0, len(c.messages)+1)
		prompt = append(prompt, llms.TextParts(llms.ChatMessageTypeSystem, c.system()))
		prompt = append(prompt, c.messages...)

		resp, err := c.llm.GenerateContent(ctx, prompt, opts...)
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("chat model returned no choices")
		}

		choice := resp.Choices[0]
		if len(choice.ToolCalls) == 0 {
			c.messages = append(c.messages, llms.TextParts(llms.ChatMessageTypeAI, choice.Content))
			c.persist(ctx, userInput, choice.Content)

			return choice.Content, nil
		}

		assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		for _, call := range choice.ToolCalls {
			assistant.Parts = append(assistant.Parts, call)
		}
		c.messages = append(c.messages, assistant)

		for _, call := range choice.ToolCalls {
			result, err := c.toolkit.Dispatch(ctx, call.FunctionCall.Name, call.FunctionCall.Arguments)
			if err != nil {
				slog.Error("tool call failed", "tool", call.FunctionCall.Name, "error", err)
				result = "The tool failed, apologize and ask the visitor to retry."
			}

			c.messages = append(c.messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: call.ID,
						Name:       call.FunctionCall.Name,
						Content:    result,
					},
				},
			})
		}
	}

	return "", fmt.Errorf("tool loop exceeded %d rounds", maxToolRounds)
}

func (c *Chat) persist(ctx context.Context, userInput, answer string) {
	if c.history == nil {
		return
	}
	if err := c.history.AddUserMessage(ctx, userInput); err != nil {
		slog.Warn("failed to persist user message", "error", err)
	}
	if err := c.history.AddAIMessage(ctx, answer); err != nil {
		slog.Warn("failed to persist assistant message", "error", err)
	}
}
