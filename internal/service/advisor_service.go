package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/dgraph-io/ristretto"
	"github.com/nestfolio/nestfolio-backend/internal/domain"
	"github.com/rs/zerolog/log"
)

// ErrAdvisorDisabled is returned when no API key is configured
var ErrAdvisorDisabled = errors.New("advisor is not configured")

// ErrAdvisorResponse is returned when the model reply is not usable
var ErrAdvisorResponse = errors.New("advisor returned an unusable response")

const adviceCacheTTL = 15 * time.Minute

// MessageCreator is the slice of the Anthropic client the advisor needs.
// The concrete client's Messages service satisfies it.
type MessageCreator interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Advice is the advisor's reply: a model-authored JSON document passed
// through opaquely once it validates as JSON.
type Advice struct {
	GeneratedAt time.Time       `json:"generatedAt"`
	Content     json.RawMessage `json:"content"`
	Cached      bool            `json:"cached"`
}

// AdvisorService turns a financial snapshot into natural-language advice
// via the Anthropic API. Replies are cached keyed by a fingerprint of
// the snapshot, so an unchanged month costs one upstream call.
type AdvisorService struct {
	messages  MessageCreator
	cache     *ristretto.Cache
	model     string
	maxTokens int64
}

// NewAdvisorService creates a new AdvisorService. A nil messages client
// disables the advisor; calls then fail with ErrAdvisorDisabled.
func NewAdvisorService(messages MessageCreator, model string, maxTokens int64) (*AdvisorService, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &AdvisorService{
		messages:  messages,
		cache:     cache,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

const advisorSystemPrompt = "You are a careful personal-finance advisor. " +
	"You receive one household's monthly financial snapshot as JSON. " +
	"Reply with a single JSON object: {\"summary\": string, \"observations\": [string], \"suggestions\": [string]}. " +
	"Base every statement only on the snapshot. Do not invent numbers. Reply with JSON only, no prose around it."

// Advise produces advice for the given snapshot
func (s *AdvisorService) Advise(ctx context.Context, snapshot *domain.FinancialSnapshot) (*Advice, error) {
	if s.messages == nil {
		return nil, ErrAdvisorDisabled
	}

	key, payload, err := fingerprint(snapshot)
	if err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(key); ok {
		if content, ok := cached.(json.RawMessage); ok {
			log.Debug().Str("fingerprint", key).Msg("Advice served from cache")
			return &Advice{GeneratedAt: time.Now().UTC(), Content: content, Cached: true}, nil
		}
	}

	message, err := s.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: s.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: advisorSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(string(payload))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("advisor request: %w", err)
	}

	content, err := extractJSON(message)
	if err != nil {
		return nil, err
	}

	s.cache.SetWithTTL(key, content, int64(len(content)), adviceCacheTTL)
	s.cache.Wait()

	return &Advice{GeneratedAt: time.Now().UTC(), Content: content, Cached: false}, nil
}

// fingerprint derives a stable cache key from the snapshot's JSON form
func fingerprint(snapshot *domain.FinancialSnapshot) (string, []byte, error) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return "", nil, err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), payload, nil
}

// extractJSON pulls the text blocks out of the reply and validates that
// they form a JSON document. Anything else is rejected rather than
// forwarded to clients.
func extractJSON(message *anthropic.Message) (json.RawMessage, error) {
	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, ErrAdvisorResponse
	}

	// Models occasionally wrap JSON in a code fence despite instructions
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if !json.Valid([]byte(text)) {
		return nil, ErrAdvisorResponse
	}

	return json.RawMessage(text), nil
}
