package cloudnl

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/language/apiv2/languagepb"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

func fakeScorer(fn analyzeFunc) *Scorer {
	return &Scorer{analyze: fn, languageCode: "pt"}
}

func TestScoreReturnsDocumentSentiment(t *testing.T) {
	var seen *languagepb.AnalyzeSentimentRequest
	s := fakeScorer(func(ctx context.Context, req *languagepb.AnalyzeSentimentRequest) (*languagepb.AnalyzeSentimentResponse, error) {
		seen = req
		return &languagepb.AnalyzeSentimentResponse{
			DocumentSentiment: &languagepb.Sentiment{Score: 0.5, Magnitude: 2},
		}, nil
	})

	got, err := s.Score(context.Background(), "lucro recorde")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got != 0.5 {
		t.Errorf("Score = %v, want 0.5", got)
	}
	if seen.GetDocument().GetContent() != "lucro recorde" {
		t.Errorf("unexpected content: %q", seen.GetDocument().GetContent())
	}
	if seen.GetDocument().GetLanguageCode() != "pt" {
		t.Errorf("language code not forwarded: %q", seen.GetDocument().GetLanguageCode())
	}
}

func TestScoreEmptyTextSkipsAPI(t *testing.T) {
	s := fakeScorer(func(ctx context.Context, req *languagepb.AnalyzeSentimentRequest) (*languagepb.AnalyzeSentimentResponse, error) {
		t.Fatal("API must not be called for empty text")
		return nil, nil
	})
	got, err := s.Score(context.Background(), "")
	if err != nil || got != 0 {
		t.Errorf("Score(\"\") = %v, %v; want 0, nil", got, err)
	}
}

func TestScoreWrapsAPIErrors(t *testing.T) {
	s := fakeScorer(func(ctx context.Context, req *languagepb.AnalyzeSentimentRequest) (*languagepb.AnalyzeSentimentResponse, error) {
		return nil, errors.New("quota exceeded")
	})
	if _, err := s.Score(context.Background(), "texto"); !errors.Is(err, internalerr.ErrScoring) {
		t.Errorf("got %v, want ErrScoring", err)
	}
}

func TestNewRejectsBadCredentials(t *testing.T) {
	if _, err := New(context.Background(), "%%% not base64", ""); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("got %v, want ErrInvalidConfig", err)
	}
}

func TestCloseWithoutClient(t *testing.T) {
	if err := fakeScorer(nil).Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
