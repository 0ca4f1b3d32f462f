package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter records chat completion calls and replays a canned response.
type fakeCompleter struct {
	calls   int
	lastReq openai.ChatCompletionRequest
	content string
	err     error
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func TestExtractInvoiceUnsupportedFormat(t *testing.T) {
	fake := &fakeCompleter{content: sampleJSON}
	extractor := NewOpenAIExtractorWithDeps(fake, "gpt-4o")

	_, err := extractor.ExtractInvoice(context.Background(), "invoice.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Zero(t, fake.calls)
}

func TestExtractFromPDFScannedFailsWithoutModelCall(t *testing.T) {
	fake := &fakeCompleter{content: sampleJSON}
	extractor := NewOpenAIExtractorWithDeps(fake, "gpt-4o")
	extractor.pdfText = func(string) (string, error) {
		return "   \n  x  ", nil // well under the threshold
	}

	_, err := extractor.ExtractInvoice(context.Background(), "scan.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnextractableDocument))
	assert.Zero(t, fake.calls, "a scanned PDF must never trigger a paid model call")
}

func TestExtractFromPDFStructuresTextWithModel(t *testing.T) {
	fake := &fakeCompleter{content: sampleJSON}
	extractor := NewOpenAIExtractorWithDeps(fake, "gpt-4o")
	extractor.pdfText = func(string) (string, error) {
		return "TAX INVOICE\nAcme Supplies\nINV-042 dated 2026-07-15\nTotal: 1180.00", nil
	}

	invoice, err := extractor.ExtractInvoice(context.Background(), "invoice.pdf")
	require.NoError(t, err)

	assert.Equal(t, "Acme Supplies", invoice.VendorName)
	assert.Equal(t, 1, fake.calls)
	require.Len(t, fake.lastReq.Messages, 2)
	assert.Contains(t, fake.lastReq.Messages[1].Content, "INV-042")
}

func TestExtractFromImageSendsVisionRequest(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "invoice.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("not-really-a-png"), 0o644))

	fake := &fakeCompleter{content: "```json\n" + sampleJSON + "\n```"}
	extractor := NewOpenAIExtractorWithDeps(fake, "gpt-4o")

	invoice, err := extractor.ExtractInvoice(context.Background(), imagePath)
	require.NoError(t, err)

	assert.Equal(t, "INV-042", invoice.InvoiceNumber)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, "gpt-4o", fake.lastReq.Model)

	require.Len(t, fake.lastReq.Messages, 2)
	parts := fake.lastReq.Messages[1].MultiContent
	require.Len(t, parts, 2)
	assert.Equal(t, openai.ChatMessagePartTypeImageURL, parts[0].Type)
	assert.Contains(t, parts[0].ImageURL.URL, "data:image/png;base64,")
}

func TestExtractFromImageModelFailure(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "invoice.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpg-bytes"), 0o644))

	fake := &fakeCompleter{err: errors.New("rate limited")}
	extractor := NewOpenAIExtractorWithDeps(fake, "gpt-4o")

	_, err := extractor.ExtractInvoice(context.Background(), imagePath)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExtractionFailed))
}
