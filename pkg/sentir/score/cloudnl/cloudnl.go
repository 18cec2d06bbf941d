// Package cloudnl scores polarity with the Google Cloud Natural Language API.
package cloudnl

import (
	"context"
	"encoding/base64"
	"fmt"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"
	"google.golang.org/api/option"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
	"github.com/cognicore/sentir/pkg/sentir/score"
)

type analyzeFunc func(ctx context.Context, req *languagepb.AnalyzeSentimentRequest) (*languagepb.AnalyzeSentimentResponse, error)

// Scorer returns the document sentiment score, which the API already reports in [-1, 1].
type Scorer struct {
	analyze      analyzeFunc
	closeFn      func() error
	languageCode string
}

// New creates a scorer from base64-encoded service account JSON.
// languageCode may be empty to let the API detect the language.
func New(ctx context.Context, encodedCreds, languageCode string) (*Scorer, error) {
	creds, err := base64.StdEncoding.DecodeString(encodedCreds)
	if err != nil {
		return nil, fmt.Errorf("%w: decode natural language credentials: %v", internalerr.ErrInvalidConfig, err)
	}

	client, err := language.NewClient(ctx, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, fmt.Errorf("create natural language client: %w", err)
	}

	return &Scorer{
		analyze: func(ctx context.Context, req *languagepb.AnalyzeSentimentRequest) (*languagepb.AnalyzeSentimentResponse, error) {
			return client.AnalyzeSentiment(ctx, req)
		},
		closeFn:      client.Close,
		languageCode: languageCode,
	}, nil
}

// Close releases the underlying client.
func (s *Scorer) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// Score implements score.Scorer.
func (s *Scorer) Score(ctx context.Context, text string) (float64, error) {
	if text == "" {
		return 0, nil
	}

	req := &languagepb.AnalyzeSentimentRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{
				Content: text,
			},
			Type:         languagepb.Document_PLAIN_TEXT,
			LanguageCode: s.languageCode,
		},
		EncodingType: languagepb.EncodingType_UTF8,
	}

	resp, err := s.analyze(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("%w: AnalyzeSentiment: %v", internalerr.ErrScoring, err)
	}

	polarity := float64(resp.GetDocumentSentiment().GetScore())
	if err := score.CheckPolarity(polarity); err != nil {
		return 0, err
	}
	return polarity, nil
}
