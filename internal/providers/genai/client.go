package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/infra"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey        string
	BaseURL       string
	UploadBaseURL string
	Model         string
	HTTPClient    *http.Client
	Logger        *infra.Logger
}

// Client is a thin facade over the Gemini REST surface: the media upload
// endpoint, the file metadata endpoint used for readiness checks, and
// generateContent constrained by a structured response schema.
type Client struct {
	apiKey        string
	baseURL       string
	uploadBaseURL string
	model         string
	httpClient    *http.Client
	logger        *infra.Logger
}

// FileState mirrors the processing state reported by the files endpoint.
type FileState string

const (
	FileStateProcessing FileState = "PROCESSING"
	FileStateActive     FileState = "ACTIVE"
	FileStateFailed     FileState = "FAILED"
)

// File is the gateway's view of an uploaded asset. URI and MIMEType are only
// meaningful once the state has left PROCESSING.
type File struct {
	Name     string    `json:"name"`
	State    FileState `json:"state"`
	URI      string    `json:"uri"`
	MIMEType string    `json:"mimeType"`
}

// Part is one element of a generateContent request body. Exactly one field
// should be set.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
	FileData   *FileData   `json:"fileData,omitempty"`
}

// InlineData carries base64 media bytes inline with the request.
type InlineData struct {
	MIMEType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// FileData references a previously uploaded asset by URI.
type FileData struct {
	MIMEType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri,omitempty"`
}

// TextPart builds a text part.
func TextPart(text string) Part { return Part{Text: text} }

// FilePart builds a part referencing an uploaded asset.
func FilePart(uri, mimeType string) Part {
	return Part{FileData: &FileData{MIMEType: mimeType, FileURI: uri}}
}

// InlinePart builds a part carrying base64 media bytes.
func InlinePart(data, mimeType string) Part {
	return Part{InlineData: &InlineData{MIMEType: mimeType, Data: data}}
}

// SchemaType enumerates the structured output value types.
type SchemaType string

const (
	TypeObject  SchemaType = "OBJECT"
	TypeArray   SchemaType = "ARRAY"
	TypeString  SchemaType = "STRING"
	TypeNumber  SchemaType = "NUMBER"
	TypeInteger SchemaType = "INTEGER"
)

// Schema declares the JSON shape the model must return.
type Schema struct {
	Type        SchemaType         `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// GenerateRequest describes one structured inference call.
type GenerateRequest struct {
	SystemInstruction string
	Parts             []Part
	Schema            *Schema
	Temperature       float64
}

type geminiContent struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	CandidateCount   int     `json:"candidateCount,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
	ResponseSchema   *Schema `json:"responseSchema,omitempty"`
}

type geminiGenerateContentRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiFileEnvelope struct {
	File File `json:"file"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

const defaultTimeout = 60 * time.Second

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with a conservative timeout will
// be created.
func NewClient(opts Options) (*Client, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	uploadBaseURL := strings.TrimRight(opts.UploadBaseURL, "/")
	if uploadBaseURL == "" {
		uploadBaseURL = "https://generativelanguage.googleapis.com/upload/v1beta"
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:        strings.TrimSpace(opts.APIKey),
		baseURL:       baseURL,
		uploadBaseURL: uploadBaseURL,
		model:         model,
		httpClient:    client,
		logger:        logger,
	}, nil
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// UploadFile pushes media bytes through the resumable upload protocol and
// returns the gateway's file record. The returned file usually starts out in
// the PROCESSING state.
func (c *Client) UploadFile(ctx context.Context, r io.Reader, size int64, mimeType, displayName string) (*File, error) {
	startBody, err := json.Marshal(map[string]any{
		"file": map[string]any{"display_name": displayName},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal upload metadata: %w", err)
	}

	startReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadBaseURL+"/files", bytes.NewReader(startBody))
	if err != nil {
		return nil, fmt.Errorf("create upload start request: %w", err)
	}
	c.authorize(startReq)
	startReq.Header.Set("Content-Type", "application/json")
	startReq.Header.Set("X-Goog-Upload-Protocol", "resumable")
	startReq.Header.Set("X-Goog-Upload-Command", "start")
	startReq.Header.Set("X-Goog-Upload-Header-Content-Length", strconv.FormatInt(size, 10))
	startReq.Header.Set("X-Goog-Upload-Header-Content-Type", mimeType)

	startResp, err := c.httpClient.Do(startReq)
	if err != nil {
		return nil, fmt.Errorf("start upload: %w", err)
	}
	_, _ = io.Copy(io.Discard, startResp.Body)
	_ = startResp.Body.Close()
	if startResp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("start upload status %d", startResp.StatusCode)
	}

	uploadURL := startResp.Header.Get("X-Goog-Upload-URL")
	if uploadURL == "" {
		return nil, fmt.Errorf("upload session did not return an upload url")
	}

	sendReq, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, r)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	sendReq.ContentLength = size
	sendReq.Header.Set("X-Goog-Upload-Offset", "0")
	sendReq.Header.Set("X-Goog-Upload-Command", "upload, finalize")

	sendResp, err := c.httpClient.Do(sendReq)
	if err != nil {
		return nil, fmt.Errorf("transfer bytes: %w", err)
	}
	defer sendResp.Body.Close()
	if sendResp.StatusCode >= http.StatusBadRequest {
		return nil, c.statusError("upload", sendResp)
	}

	var envelope geminiFileEnvelope
	if err := json.NewDecoder(sendResp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if envelope.File.Name == "" {
		return nil, fmt.Errorf("upload response missing file name")
	}

	c.logger.Debug().
		Str("file", envelope.File.Name).
		Str("state", string(envelope.File.State)).
		Int64("bytes", size).
		Msg("genai: media uploaded")

	return &envelope.File, nil
}

// GetFile re-queries the gateway for the current processing state of an
// uploaded asset.
func (c *Client) GetFile(ctx context.Context, name string) (*File, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "/")
	if !strings.HasPrefix(name, "files/") {
		name = "files/" + name
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+name, nil)
	if err != nil {
		return nil, fmt.Errorf("create file request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.statusError("get file", resp)
	}

	var file File
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode file response: %w", err)
	}
	return &file, nil
}

// GenerateContent issues one structured inference call and returns the raw
// text of the first candidate. Callers parse and validate the payload.
func (c *Client) GenerateContent(ctx context.Context, req GenerateRequest) (string, error) {
	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: req.Parts}},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      req.Temperature,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
			ResponseSchema:   req.Schema,
		},
	}
	if req.SystemInstruction != "" {
		payload.SystemInstruction = &geminiContent{Parts: []Part{{Text: req.SystemInstruction}}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	c.authorize(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return "", c.statusError("generate", resp)
	}

	var out geminiGenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	for _, candidate := range out.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				return part.Text, nil
			}
		}
	}
	return "", fmt.Errorf("no text content returned")
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}
}

func (c *Client) statusError(op string, resp *http.Response) error {
	var apiErr geminiErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("%s status %d: %s", op, resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("%s status %d", op, resp.StatusCode)
}

// ExtractJSON strips markdown code fences and surrounding prose from a model
// reply, leaving the JSON fragment to be unmarshalled.
func ExtractJSON(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
