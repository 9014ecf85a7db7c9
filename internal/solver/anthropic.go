package solver

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/studyhub/backend/internal/models"
)

const DefaultAnthropicModel = "claude-sonnet-4-5"

const solvePrompt = `You are a math tutor. Read the equation and solve it step by step.
Respond with JSON only, no prose and no code fences, in exactly this shape:
{"equation": "<the equation as plain text>", "solution": "<final answer>", "steps": ["<step>", "..."]}
If there is no readable equation, respond with {"error": "<reason>"}.`

// AnthropicSolver asks a Claude vision model to read and solve the equation.
type AnthropicSolver struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicSolver(apiKey, model string, opts ...option.RequestOption) *AnthropicSolver {
	if model == "" {
		model = DefaultAnthropicModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(opts...)
	return &AnthropicSolver{client: &client, model: model}
}

func (s *AnthropicSolver) Name() string { return "anthropic" }

func (s *AnthropicSolver) Solve(ctx context.Context, req models.SolveRequest) (models.SolveResponse, error) {
	var blocks []anthropic.ContentBlockParamUnion
	if req.Image != "" {
		mediaType, data, err := splitDataURL(req.Image)
		if err != nil {
			return models.SolveResponse{}, fmt.Errorf("read image: %w", err)
		}
		blocks = append(blocks, anthropic.NewImageBlockBase64(mediaType, data))
	}
	if req.Equation != "" {
		blocks = append(blocks, anthropic.NewTextBlock("Equation: "+req.Equation))
	}
	if len(blocks) == 0 {
		return models.SolveResponse{}, ErrNeedsEquationText
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(s.model),
		MaxTokens:   2048,
		Temperature: param.NewOpt(0.0),
		System: []anthropic.TextBlockParam{
			{Text: solvePrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	}

	message, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return models.SolveResponse{}, fmt.Errorf("anthropic API: %w", err)
	}

	var text string
	for _, block := range message.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return models.SolveResponse{}, fmt.Errorf("%w: no text content", ErrBadResponse)
	}
	return parseSolution(stripCodeFences(text), req.Equation)
}
