package stylist

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/catalog"
	"server/internal/domain"
	"server/internal/providers/genai"
)

type fakeInferencer struct {
	reply   string
	err     error
	lastReq genai.GenerateRequest
}

func (f *fakeInferencer) GenerateContent(ctx context.Context, req genai.GenerateRequest) (string, error) {
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestStylist(inf Inferencer) *Stylist {
	return New(inf, catalog.New(catalog.DefaultProducts), zerolog.Nop())
}

func TestRecommendResolvesCatalogProducts(t *testing.T) {
	inf := &fakeInferencer{reply: `{
		"recommendations": [
			{"productName": "Victory Rashguard", "reason": "Matches your training setup."},
			{"productName": "signature series hoodie", "reason": "Fits the color palette."}
		]
	}`}
	s := newTestStylist(inf)

	recs, err := s.Recommend(context.Background(), []byte("png-bytes"), "image/png", "gym fits")
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len(recs) = %d, want 2", len(recs))
	}
	if recs[0].Product.ID != 6 {
		t.Fatalf("recs[0].Product.ID = %d, want 6", recs[0].Product.ID)
	}
	// name matching is case-insensitive
	if recs[1].Product.ID != 2 {
		t.Fatalf("recs[1].Product.ID = %d, want 2", recs[1].Product.ID)
	}
	if recs[0].Reason != "Matches your training setup." {
		t.Fatalf("recs[0].Reason = %q", recs[0].Reason)
	}
}

func TestRecommendDropsUnknownProducts(t *testing.T) {
	inf := &fakeInferencer{reply: `{
		"recommendations": [
			{"productName": "Mystery Belt", "reason": "nope"},
			{"productName": "Fighter Crest Mug", "reason": "Morning fuel."}
		]
	}`}
	s := newTestStylist(inf)

	recs, err := s.Recommend(context.Background(), []byte("png-bytes"), "image/png", "anything")
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
	if recs[0].Product.Name != "Fighter Crest Mug" {
		t.Fatalf("recs[0].Product.Name = %q", recs[0].Product.Name)
	}
}

func TestRecommendEmptyIsNotAnError(t *testing.T) {
	inf := &fakeInferencer{reply: `{"recommendations": []}`}
	s := newTestStylist(inf)

	recs, err := s.Recommend(context.Background(), []byte("png-bytes"), "image/png", "spacesuits")
	if err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("len(recs) = %d, want 0", len(recs))
	}
}

func TestRecommendWrapsInferenceFailure(t *testing.T) {
	inf := &fakeInferencer{err: fmt.Errorf("generate status 500")}
	s := newTestStylist(inf)

	if _, err := s.Recommend(context.Background(), []byte("png-bytes"), "image/png", "x"); !errors.Is(err, domain.ErrRecommendation) {
		t.Fatalf("err = %v, want ErrRecommendation", err)
	}
}

func TestRecommendRejectsUnparseableReply(t *testing.T) {
	inf := &fakeInferencer{reply: "sorry, no"}
	s := newTestStylist(inf)

	if _, err := s.Recommend(context.Background(), []byte("png-bytes"), "image/png", "x"); !errors.Is(err, domain.ErrRecommendation) {
		t.Fatalf("err = %v, want ErrRecommendation", err)
	}
}

func TestRecommendRequestShape(t *testing.T) {
	inf := &fakeInferencer{reply: `{"recommendations": []}`}
	s := newTestStylist(inf)

	image := []byte("raw image bytes")
	if _, err := s.Recommend(context.Background(), image, "image/jpeg", "casual look"); err != nil {
		t.Fatalf("Recommend returned error: %v", err)
	}

	req := inf.lastReq
	if !strings.Contains(req.SystemInstruction, "Fighter Crest Mug") {
		t.Fatal("system instruction does not embed the catalog listing")
	}
	if len(req.Parts) != 2 {
		t.Fatalf("len(Parts) = %d, want 2", len(req.Parts))
	}
	inline := req.Parts[0].InlineData
	if inline == nil || inline.MIMEType != "image/jpeg" {
		t.Fatalf("first part = %+v, want inline image/jpeg", req.Parts[0])
	}
	if inline.Data != base64.StdEncoding.EncodeToString(image) {
		t.Fatal("inline data is not the base64 of the uploaded image")
	}
	if !strings.Contains(req.Parts[1].Text, `"casual look"`) {
		t.Fatalf("second part text = %q", req.Parts[1].Text)
	}
	if req.Schema == nil || req.Schema.Properties["recommendations"] == nil {
		t.Fatal("request schema missing recommendations property")
	}
}

func TestValidateImage(t *testing.T) {
	cases := []struct {
		name     string
		mimeType string
		size     int64
		wantErr  bool
	}{
		{"png accepted", "image/png", 1024, false},
		{"jpeg accepted", "image/jpeg", MaxImageBytes, false},
		{"video rejected", "video/mp4", 1024, true},
		{"empty rejected", "image/png", 0, true},
		{"oversized rejected", "image/png", MaxImageBytes + 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateImage(tc.mimeType, tc.size)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("err = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
