package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/ai/azopenai"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"

	"ai-interview/internal/config"
)

const jsonSystemPrompt = "You reply with a single valid JSON object and nothing else."

// AzOpenAIClient работает с развертыванием модели в Azure OpenAI через SDK
type AzOpenAIClient struct {
	client       *azopenai.Client
	deploymentID string
}

// NewAzOpenAIClient создает клиент для одного deployment
func NewAzOpenAIClient(cfg config.AzureConfig) (*AzOpenAIClient, error) {
	keyCredential := azcore.NewKeyCredential(cfg.APIKey)
	client, err := azopenai.NewClientWithKeyCredential(cfg.Endpoint, keyCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating Azure OpenAI client: %w", err)
	}
	return &AzOpenAIClient{
		client:       client,
		deploymentID: cfg.Deployment,
	}, nil
}

func (c *AzOpenAIClient) Name() string { return "azure:" + c.deploymentID }

func (c *AzOpenAIClient) Generate(ctx context.Context, prompt string, format Format) (*Response, error) {
	messages := []azopenai.ChatRequestMessageClassification{
		&azopenai.ChatRequestUserMessage{
			Content: azopenai.NewChatRequestUserMessageContent(prompt),
		},
	}
	if format == FormatJSON {
		systemMsg := &azopenai.ChatRequestSystemMessage{
			Content: azopenai.NewChatRequestSystemMessageContent(jsonSystemPrompt),
		}
		messages = append([]azopenai.ChatRequestMessageClassification{systemMsg}, messages...)
	}

	resp, err := c.client.GetChatCompletions(ctx, azopenai.ChatCompletionsOptions{
		DeploymentName: to.Ptr(c.deploymentID),
		Messages:       messages,
	}, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && isContentPolicy(respErr.ErrorCode) {
			return &Response{Blocked: true, BlockedReason: "content filter"}, nil
		}
		return nil, fmt.Errorf("Azure OpenAI request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}
	choice := resp.Choices[0]
	if choice.FinishReason != nil && string(*choice.FinishReason) == "content_filter" {
		return &Response{Blocked: true, BlockedReason: "content filter"}, nil
	}

	content := ""
	if choice.Message != nil && choice.Message.Content != nil {
		content = *choice.Message.Content
	}
	return &Response{Text: content}, nil
}
