package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"invoicebridge/internal/logger"
	"invoicebridge/pkg/models"
)

// Service extracts structured invoice data from an uploaded document.
type Service interface {
	// ExtractInvoice reads the document at filePath and returns the model's
	// best-effort structured reading of it.
	ExtractInvoice(ctx context.Context, filePath string) (*models.ExtractedInvoice, error)
}

// chatCompleter is the slice of the OpenAI client the extractor uses.
// *openai.Client satisfies it; tests inject a fake.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// imageMimeTypes maps accepted image extensions to their media type.
var imageMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// OpenAIExtractor implements Service against the OpenAI chat completions API.
// Images go to the vision endpoint; PDFs have their text layer extracted
// locally first, failing fast when there is nothing to extract.
type OpenAIExtractor struct {
	client  chatCompleter
	model   string
	pdfText func(string) (string, error)
	log     zerolog.Logger
}

// NewOpenAIExtractor creates an extractor backed by the given client.
func NewOpenAIExtractor(client *openai.Client, model string) *OpenAIExtractor {
	return NewOpenAIExtractorWithDeps(client, model)
}

// NewOpenAIExtractorWithDeps creates an extractor with an explicit completion
// backend (for testing).
func NewOpenAIExtractorWithDeps(client chatCompleter, model string) *OpenAIExtractor {
	return &OpenAIExtractor{
		client:  client,
		model:   model,
		pdfText: extractPDFText,
		log:     logger.WithComponent("extract"),
	}
}

// ExtractInvoice routes the document by extension and returns the parsed result.
func (s *OpenAIExtractor) ExtractInvoice(ctx context.Context, filePath string) (*models.ExtractedInvoice, error) {
	const op = "ExtractInvoice"

	ext := strings.ToLower(filepath.Ext(filePath))

	s.log.Info().
		Str("file", filepath.Base(filePath)).
		Str("ext", ext).
		Msg("Extracting invoice data")

	switch {
	case ext == ".pdf":
		return s.extractFromPDF(ctx, filePath)
	case imageMimeTypes[ext] != "":
		return s.extractFromImage(ctx, filePath, imageMimeTypes[ext])
	default:
		return nil, WrapExtractionError(op, ErrUnsupportedFormat, fmt.Sprintf("extension %q", ext))
	}
}

// extractFromImage encodes the image and submits it to the vision-capable model.
func (s *OpenAIExtractor) extractFromImage(ctx context.Context, filePath, mimeType string) (*models.ExtractedInvoice, error) {
	const op = "extractFromImage"

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, WrapExtractionError(op, err, "failed to read image file")
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
					{
						Type: openai.ChatMessagePartTypeText,
						Text: "Extract all invoice data from this image. Return ONLY valid JSON.",
					},
				},
			},
		},
		MaxTokens:   3000,
		Temperature: 0,
	})
	if err != nil {
		return nil, WrapExtractionError(op, ErrExtractionFailed, err.Error())
	}
	if len(resp.Choices) == 0 {
		return nil, WrapExtractionError(op, ErrExtractionFailed, "no response choices")
	}

	return parseInvoiceJSON(resp.Choices[0].Message.Content)
}

// extractFromPDF extracts the text layer locally and structures it with the
// model. Near-empty text means a scanned PDF; that fails before any model call.
func (s *OpenAIExtractor) extractFromPDF(ctx context.Context, filePath string) (*models.ExtractedInvoice, error) {
	const op = "extractFromPDF"

	text, err := s.pdfText(filePath)
	if err != nil {
		return nil, WrapExtractionError(op, err, "PDF text extraction failed")
	}

	if len(strings.TrimSpace(text)) < minExtractableChars {
		return nil, WrapExtractionError(op, ErrUnextractableDocument,
			"this PDF appears to be a scanned image; upload a JPG/PNG of the invoice instead")
	}

	s.log.Debug().
		Int("text_length", len(text)).
		Msg("Extracted PDF text layer")

	prompt := fmt.Sprintf("Here is the extracted text from an invoice PDF. Extract all invoice data and return ONLY valid JSON.\n\n--- INVOICE TEXT ---\n%s\n--- END ---", text)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   3000,
		Temperature: 0,
	})
	if err != nil {
		return nil, WrapExtractionError(op, ErrExtractionFailed, err.Error())
	}
	if len(resp.Choices) == 0 {
		return nil, WrapExtractionError(op, ErrExtractionFailed, "no response choices")
	}

	return parseInvoiceJSON(resp.Choices[0].Message.Content)
}
