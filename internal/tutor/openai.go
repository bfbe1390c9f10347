package tutor

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient implements Client over the Assistants surface of an
// OpenAI-compatible agent service. The endpoint override is what points
// it at the hosted project service instead of the public API.
type OpenAIClient struct {
	api openai.Client
}

// NewOpenAIClient creates a client against the given endpoint. An empty
// apiKey is allowed for gateways that authenticate some other way.
func NewOpenAIClient(endpoint, apiKey string) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithBaseURL(endpoint),
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &OpenAIClient{
		api: openai.NewClient(opts...),
	}
}

// GetAgent fetches an existing assistant by id.
func (c *OpenAIClient) GetAgent(ctx context.Context, id string) (Agent, error) {
	assistant, err := c.api.Beta.Assistants.Get(ctx, id)
	if err != nil {
		return Agent{}, wrapServiceError(err)
	}
	return Agent{
		ID:    assistant.ID,
		Name:  assistant.Name,
		Model: assistant.Model,
	}, nil
}

// CreateAgent creates a new assistant carrying the instructions text.
func (c *OpenAIClient) CreateAgent(ctx context.Context, name, model, instructions string) (Agent, error) {
	assistant, err := c.api.Beta.Assistants.New(ctx, openai.BetaAssistantNewParams{
		Model:        openai.ChatModel(model),
		Name:         openai.String(name),
		Instructions: openai.String(instructions),
	})
	if err != nil {
		return Agent{}, wrapServiceError(err)
	}
	return Agent{
		ID:    assistant.ID,
		Name:  assistant.Name,
		Model: assistant.Model,
	}, nil
}

// DeleteAgent removes an assistant.
func (c *OpenAIClient) DeleteAgent(ctx context.Context, id string) error {
	_, err := c.api.Beta.Assistants.Delete(ctx, id)
	return wrapServiceError(err)
}

// CreateThread creates a fresh conversation thread.
func (c *OpenAIClient) CreateThread(ctx context.Context) (Thread, error) {
	thread, err := c.api.Beta.Threads.New(ctx, openai.BetaThreadNewParams{})
	if err != nil {
		return Thread{}, wrapServiceError(err)
	}
	return Thread{ID: thread.ID}, nil
}

// AppendUserMessage appends one user message to the thread.
func (c *OpenAIClient) AppendUserMessage(ctx context.Context, threadID, content string) error {
	_, err := c.api.Beta.Threads.Messages.New(ctx, threadID, openai.BetaThreadMessageNewParams{
		Role: openai.BetaThreadMessageNewParamsRoleUser,
		Content: openai.BetaThreadMessageNewParamsContentUnion{
			OfString: openai.String(content),
		},
	})
	return wrapServiceError(err)
}

// ListMessages returns the thread's messages oldest first. Only text
// segments are carried over; other content kinds are dropped.
func (c *OpenAIClient) ListMessages(ctx context.Context, threadID string) ([]Message, error) {
	page, err := c.api.Beta.Threads.Messages.List(ctx, threadID, openai.BetaThreadMessageListParams{
		Order: openai.BetaThreadMessageListParamsOrderAsc,
	})
	if err != nil {
		return nil, wrapServiceError(err)
	}

	var out []Message
	for page != nil {
		for _, m := range page.Data {
			msg := Message{Role: string(m.Role)}
			for _, part := range m.Content {
				if part.Type == "text" {
					msg.Texts = append(msg.Texts, part.Text.Value)
				}
			}
			out = append(out, msg)
		}
		page, err = page.GetNextPage()
		if err != nil {
			return nil, wrapServiceError(err)
		}
	}
	return out, nil
}

// RunAndWait submits a run and polls until it reaches a terminal state.
// The poll interval is left to the SDK (it honors the service's hint).
func (c *OpenAIClient) RunAndWait(ctx context.Context, threadID, agentID string) (Run, error) {
	run, err := c.api.Beta.Threads.Runs.NewAndPoll(ctx, threadID, openai.BetaThreadRunNewParams{
		AssistantID: agentID,
	}, 0)
	if err != nil {
		return Run{}, wrapServiceError(err)
	}
	return Run{
		Status:        RunStatus(run.Status),
		FailureCode:   string(run.LastError.Code),
		FailureDetail: run.LastError.Message,
	}, nil
}

// wrapServiceError converts SDK HTTP errors into ServiceError. Anything
// else (context cancellation, transport setup) passes through untouched.
func wrapServiceError(err error) error {
	if err == nil {
		return nil
	}
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		msg := apierr.Message
		if msg == "" {
			msg = apierr.Error()
		}
		return &ServiceError{
			Status:  apierr.StatusCode,
			Message: msg,
		}
	}
	return err
}
