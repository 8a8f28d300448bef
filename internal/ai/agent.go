package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/orhanozan33/baharat-sub000/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// AgentService turns a natural-language description of money received
// ("Acme paid 1500 by bank transfer yesterday") into a structured payment
// proposal. The proposal is never recorded without human confirmation.
type AgentService interface {
	InterpretPayment(ctx context.Context, naturalLanguage, dealerList, today string) (*core.AgentResponse, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

func (a *Agent) InterpretPayment(ctx context.Context, naturalLanguage, dealerList, today string) (*core.AgentResponse, error) {
	prompt := fmt.Sprintf(`You are the bookkeeper of a spice distributor.
Your goal is to interpret a note about money received from a dealer and propose a payment record.
Rules:
1. Use ONLY dealer codes from the list below.
2. The amount must be an exact positive decimal string (e.g. "1500.00").
3. Method must be one of: cash, bank_transfer, credit_card, check, other.
4. Dates are YYYY-MM-DD. Today is %s; resolve relative dates ("yesterday") against it.
5. If the dealer, the amount, or both cannot be determined, ask for clarification instead of guessing.
6. Provide a confidence score (0.0-1.0) and explain your reasoning.

Dealers:
%s

Note: %s`, today, dealerList, naturalLanguage)

	// Dynamically generate the JSON schema from the Go struct
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "payment_proposal",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A proposed dealer payment record or a clarification request"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var response core.AgentResponse
	if err := json.Unmarshal([]byte(content), &response); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	if response.IsClarificationRequest {
		if response.Clarification == nil {
			return nil, fmt.Errorf("clarification requested without a message")
		}
		return &response, nil
	}
	if response.Proposal == nil {
		return nil, fmt.Errorf("response carries neither proposal nor clarification")
	}

	response.Proposal.Normalize()
	if err := response.Proposal.Validate(); err != nil {
		return nil, fmt.Errorf("proposal validation failed: %w", err)
	}

	return &response, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.AgentResponse
	return reflector.Reflect(v)
}
