package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"arthavidhi/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// Drafter turns a free-text sale description into a bill draft.
type Drafter interface {
	DraftBill(ctx context.Context, text string, today time.Time, catalogue []core.Product) (*BillDraft, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

func (a *Agent) DraftBill(ctx context.Context, text string, today time.Time, catalogue []core.Product) (*BillDraft, error) {
	prompt := buildPrompt(text, today, catalogue)

	schemaMap, err := draftSchema()
	if err != nil {
		return nil, err
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
					Name:        "bill_draft",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A draft sales bill extracted from a description of a sale"),
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

	var draft BillDraft
	if err := json.Unmarshal([]byte(content), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}
	draft.Normalize(today)
	return &draft, nil
}

func buildPrompt(text string, today time.Time, catalogue []core.Product) string {
	var b strings.Builder
	for _, p := range catalogue {
		fmt.Fprintf(&b, "- %s (unit: %s, price: %s)\n", p.Name, p.Unit, p.SellingPrice.StringFixed(2))
	}
	products := b.String()
	if products == "" {
		products = "(no products on file)\n"
	}

	return fmt.Sprintf(`You are a billing assistant for a small shop.
Turn the sale described below into a draft bill.
Rules:
1. Prices are per unit and exclude VAT; 13%% VAT is added by the system.
2. Prefer the catalogue name and price when an item matches a product.
3. Numbers must be plain decimal strings without currency symbols.
4. Today is %s.
5. If the client or the items cannot be determined, set is_clarification_request and ask.

Product catalogue:
%s
Sale: %s`, today.Format(dateLayout), products, text)
}

func draftSchema() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schemaJSON, err := json.Marshal(reflector.Reflect(&BillDraft{}))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return schemaMap, nil
}
