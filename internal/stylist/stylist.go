package stylist

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"server/internal/catalog"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/genai"
)

// MaxImageBytes caps uploaded style photos at 5 MiB.
const MaxImageBytes = 5 << 20

// Inferencer is the single structured-inference call the stylist needs.
type Inferencer interface {
	GenerateContent(ctx context.Context, req genai.GenerateRequest) (string, error)
}

var _ Inferencer = (*genai.Client)(nil)

// Stylist turns an uploaded photo plus a free-text request into catalog
// recommendations. It never invents products: every model suggestion is
// resolved against the catalog and unmatched names are dropped.
type Stylist struct {
	inferencer Inferencer
	catalog    *catalog.Catalog
	logger     infra.Logger
}

// New builds a stylist over the inference client and the storefront catalog.
func New(inferencer Inferencer, cat *catalog.Catalog, logger infra.Logger) *Stylist {
	return &Stylist{inferencer: inferencer, catalog: cat, logger: logger}
}

// ValidateImage rejects non-image MIME types and oversized photos.
func ValidateImage(mimeType string, size int64) error {
	if !strings.HasPrefix(mimeType, "image/") {
		return fmt.Errorf("%w: only image files are accepted, got %q", domain.ErrValidation, mimeType)
	}
	if size <= 0 {
		return fmt.Errorf("%w: empty image file", domain.ErrValidation)
	}
	if size > MaxImageBytes {
		return fmt.Errorf("%w: image exceeds the 5 MiB limit", domain.ErrValidation)
	}
	return nil
}

type rawRecommendation struct {
	ProductName string `json:"productName"`
	Reason      string `json:"reason"`
}

type recommendationPayload struct {
	Recommendations []rawRecommendation `json:"recommendations"`
}

// Recommend issues one inference call and resolves the reply against the
// catalog. An empty result is a legitimate answer, not an error.
func (s *Stylist) Recommend(ctx context.Context, imageData []byte, mimeType, prompt string) ([]domain.Recommendation, error) {
	encoded := base64.StdEncoding.EncodeToString(imageData)

	text, err := s.inferencer.GenerateContent(ctx, genai.GenerateRequest{
		SystemInstruction: s.instruction(),
		Parts: []genai.Part{
			genai.InlinePart(encoded, mimeType),
			genai.TextPart(fmt.Sprintf("User request: %q", prompt)),
		},
		Schema: recommendationSchema(),
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRecommendation, err)
	}

	cleaned := genai.ExtractJSON(text)
	var payload recommendationPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRecommendation, err)
	}

	recommendations := make([]domain.Recommendation, 0, len(payload.Recommendations))
	for _, raw := range payload.Recommendations {
		product, ok := s.catalog.ByName(raw.ProductName)
		if !ok {
			s.logger.Debug().Str("product_name", raw.ProductName).Msg("stylist: dropped suggestion not in catalog")
			continue
		}
		recommendations = append(recommendations, domain.Recommendation{Product: product, Reason: raw.Reason})
	}
	return recommendations, nil
}

func (s *Stylist) instruction() string {
	var b strings.Builder
	b.WriteString(`You are an expert fashion stylist and AI shopping assistant for "THE NATURAL" brand, a merchandise line for a famous fighter. Your goal is to help users find the perfect products from the store based on an image they upload and a text prompt.

Follow these rules strictly:
1. Analyze the user's uploaded image (e.g., a photo of them, a style they like, a color palette) and their text query.
2. Recommend products ONLY from the provided product catalog. Do not invent products.
3. Your response MUST be in JSON format, adhering to the provided schema.
4. Provide a compelling, short reason for each recommendation that connects the product to the user's image and request. Be persuasive and on-brand.
5. If no products are a good match, return an empty recommendations array.

Here is the available product catalog:
`)
	b.WriteString(s.catalog.Listing())
	return b.String()
}

func recommendationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"recommendations": {
				Type:        genai.TypeArray,
				Description: "A list of product names that are a good match for the user's request, based on the provided image and text. Only include products from the provided catalog.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"productName": {Type: genai.TypeString, Description: "The exact name of a recommended product from the catalog."},
						"reason":      {Type: genai.TypeString, Description: "A short, compelling reason why this product is a good recommendation for the user."},
					},
					Required: []string{"productName", "reason"},
				},
			},
		},
		Required: []string{"recommendations"},
	}
}
