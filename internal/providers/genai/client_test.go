package genai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	c, err := NewClient(Options{
		APIKey:     "test-key",
		HTTPClient: &http.Client{Transport: rt},
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestUploadFileResumableFlow(t *testing.T) {
	var calls int
	var sentBody string

	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		calls++
		switch calls {
		case 1:
			if got := r.Header.Get("X-Goog-Upload-Protocol"); got != "resumable" {
				t.Fatalf("upload protocol = %q", got)
			}
			if got := r.Header.Get("X-Goog-Upload-Command"); got != "start" {
				t.Fatalf("start command = %q", got)
			}
			if got := r.Header.Get("X-Goog-Upload-Header-Content-Type"); got != "video/mp4" {
				t.Fatalf("declared content type = %q", got)
			}
			if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
				t.Fatalf("api key header = %q", got)
			}
			resp := jsonResponse(http.StatusOK, "{}")
			resp.Header.Set("X-Goog-Upload-URL", "https://upload.example/session-1")
			return resp, nil
		case 2:
			if got := r.URL.String(); got != "https://upload.example/session-1" {
				t.Fatalf("second request url = %q", got)
			}
			if got := r.Header.Get("X-Goog-Upload-Command"); got != "upload, finalize" {
				t.Fatalf("finalize command = %q", got)
			}
			body, _ := io.ReadAll(r.Body)
			sentBody = string(body)
			return jsonResponse(http.StatusOK, `{"file":{"name":"files/abc","state":"PROCESSING"}}`), nil
		default:
			t.Fatalf("unexpected request %d to %s", calls, r.URL)
			return nil, nil
		}
	})

	payload := "fake video bytes"
	file, err := client.UploadFile(context.Background(), strings.NewReader(payload), int64(len(payload)), "video/mp4", "fight-footage")
	if err != nil {
		t.Fatalf("UploadFile returned error: %v", err)
	}
	if file.Name != "files/abc" {
		t.Fatalf("file.Name = %q", file.Name)
	}
	if file.State != FileStateProcessing {
		t.Fatalf("file.State = %q", file.State)
	}
	if sentBody != payload {
		t.Fatalf("transferred body = %q, want %q", sentBody, payload)
	}
}

func TestUploadFileRequiresSessionURL(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, "{}"), nil
	})
	_, err := client.UploadFile(context.Background(), strings.NewReader("x"), 1, "video/mp4", "clip")
	if err == nil || !strings.Contains(err.Error(), "upload url") {
		t.Fatalf("err = %v, want missing upload url", err)
	}
}

func TestGetFileNormalizesName(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		paths = append(paths, r.URL.Path)
		return jsonResponse(http.StatusOK, `{"name":"files/abc","state":"ACTIVE","uri":"https://files.example/abc","mimeType":"video/mp4"}`), nil
	})

	for _, name := range []string{"abc", "files/abc", "/files/abc"} {
		file, err := client.GetFile(context.Background(), name)
		if err != nil {
			t.Fatalf("GetFile(%q) returned error: %v", name, err)
		}
		if file.State != FileStateActive {
			t.Fatalf("file.State = %q", file.State)
		}
	}
	for i, p := range paths {
		if !strings.HasSuffix(p, "/files/abc") {
			t.Fatalf("request %d path = %q, want suffix /files/abc", i, p)
		}
	}
}

func TestGenerateContent(t *testing.T) {
	var captured geminiGenerateContentRequest
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Fatalf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"{\"ok\":true}"}]}}]}`), nil
	})

	text, err := client.GenerateContent(context.Background(), GenerateRequest{
		SystemInstruction: "be terse",
		Parts:             []Part{TextPart("hello")},
		Schema:            &Schema{Type: TypeObject},
	})
	if err != nil {
		t.Fatalf("GenerateContent returned error: %v", err)
	}
	if text != `{"ok":true}` {
		t.Fatalf("text = %q", text)
	}

	if captured.SystemInstruction == nil || captured.SystemInstruction.Parts[0].Text != "be terse" {
		t.Fatalf("system instruction = %+v", captured.SystemInstruction)
	}
	cfg := captured.GenerationConfig
	if cfg == nil || cfg.ResponseMimeType != "application/json" {
		t.Fatalf("generation config = %+v", cfg)
	}
	if cfg.CandidateCount != 1 {
		t.Fatalf("candidateCount = %d, want 1", cfg.CandidateCount)
	}
	if cfg.ResponseSchema == nil || cfg.ResponseSchema.Type != TypeObject {
		t.Fatalf("responseSchema = %+v", cfg.ResponseSchema)
	}
}

func TestGenerateContentNoCandidates(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"candidates":[]}`), nil
	})
	_, err := client.GenerateContent(context.Background(), GenerateRequest{Parts: []Part{TextPart("x")}})
	if err == nil || !strings.Contains(err.Error(), "no text content") {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerateContentSurfacesAPIError(t *testing.T) {
	client := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, `{"error":{"code":400,"message":"schema rejected"}}`), nil
	})
	_, err := client.GenerateContent(context.Background(), GenerateRequest{Parts: []Part{TextPart("x")}})
	if err == nil || !strings.Contains(err.Error(), "schema rejected") {
		t.Fatalf("err = %v", err)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose wrapped", `Here you go: {"a":1} hope that helps`, `{"a":1}`},
		{"array", `[1,2,3]`, `[1,2,3]`},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSON(tc.in); got != tc.want {
				t.Fatalf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
