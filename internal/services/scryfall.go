package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/magic-inventory/server/internal/metrics"
	"github.com/magic-inventory/server/internal/models"
)

const (
	scryfallBaseURL = "https://api.scryfall.com"

	// Minimum spacing between outbound Scryfall requests. Scryfall asks
	// clients to keep 50-100ms between calls.
	scryfallRequestDelay = 100 * time.Millisecond
)

// ScryfallService talks to the Scryfall API. All outbound calls funnel
// through a single rate limiter, so the request spacing holds process-wide
// no matter how many handlers call in concurrently. Callers block in
// Wait until their slot comes up; there is no queue-depth limit.
type ScryfallService struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

func NewScryfallService() *ScryfallService {
	return &ScryfallService{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: scryfallBaseURL,
		limiter: rate.NewLimiter(rate.Every(scryfallRequestDelay), 1),
	}
}

type scryfallList struct {
	Data     json.RawMessage `json:"data"`
	NotFound json.RawMessage `json:"not_found"`
}

type scryfallCard struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	ManaCost   string          `json:"mana_cost"`
	TypeLine   string          `json:"type_line"`
	OracleText string          `json:"oracle_text"`
	SetName    string          `json:"set_name"`
	Prices     scryfallPrices  `json:"prices"`
	ImageURIs  *scryfallImages `json:"image_uris"`
}

type scryfallPrices struct {
	USD     string `json:"usd"`
	USDFoil string `json:"usd_foil"`
}

type scryfallImages struct {
	Normal string `json:"normal"`
}

// do issues one rate-gated request and maps non-2xx statuses onto the
// error taxonomy. A 404 is reported as ErrCardNotFound, a 429 as
// ErrRateLimited (never retried here), anything else as ErrSourceUnavailable.
func (s *ScryfallService) do(ctx context.Context, req *http.Request, endpoint string) (*http.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.ScryfallRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	metrics.ScryfallRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp, nil
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrCardNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, ErrRateLimited
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: scryfall returned status %d", ErrSourceUnavailable, resp.StatusCode)
	}
}

// GetCard fetches a single card by Scryfall id.
func (s *ScryfallService) GetCard(ctx context.Context, id string) (*models.Card, error) {
	reqURL := fmt.Sprintf("%s/cards/%s", s.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.do(ctx, req, "get_card")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sc scryfallCard
	if err := json.NewDecoder(resp.Body).Decode(&sc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode card: %v", ErrSourceUnavailable, err)
	}

	card := normalizeCard(sc)
	return &card, nil
}

// SearchCards runs a canonical query against /cards/search. A 404 from
// Scryfall means no matches, which is an empty result rather than an error.
func (s *ScryfallService) SearchCards(ctx context.Context, canonicalQuery string) ([]models.Card, error) {
	reqURL := fmt.Sprintf("%s/cards/search?q=%s", s.baseURL, url.QueryEscape(canonicalQuery))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.do(ctx, req, "search")
	if err != nil {
		if err == ErrCardNotFound {
			return []models.Card{}, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	var list scryfallList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: failed to decode search response: %v", ErrSourceUnavailable, err)
	}

	var raw []scryfallCard
	if len(list.Data) > 0 {
		if err := json.Unmarshal(list.Data, &raw); err != nil {
			return nil, fmt.Errorf("%w: failed to decode search data: %v", ErrSourceUnavailable, err)
		}
	}

	cards := make([]models.Card, len(raw))
	for i, sc := range raw {
		cards[i] = normalizeCard(sc)
	}
	return cards, nil
}

type collectionRequest struct {
	Identifiers []cardIdentifier `json:"identifiers"`
}

type cardIdentifier struct {
	ID string `json:"id"`
}

// FetchCollection resolves a batch of card ids via /cards/collection.
// Partial results are allowed: ids Scryfall does not know are simply
// absent from the returned map, never an error for the whole batch.
func (s *ScryfallService) FetchCollection(ctx context.Context, ids []string) (map[string]models.Card, error) {
	result := make(map[string]models.Card, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	identifiers := make([]cardIdentifier, len(ids))
	for i, id := range ids {
		identifiers[i] = cardIdentifier{ID: id}
	}
	body, err := json.Marshal(collectionRequest{Identifiers: identifiers})
	if err != nil {
		return nil, fmt.Errorf("failed to encode identifiers: %w", err)
	}

	reqURL := s.baseURL + "/cards/collection"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.do(ctx, req, "collection")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var list scryfallList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: failed to decode collection response: %v", ErrSourceUnavailable, err)
	}

	var raw []scryfallCard
	if len(list.Data) > 0 {
		if err := json.Unmarshal(list.Data, &raw); err != nil {
			return nil, fmt.Errorf("%w: failed to decode collection data: %v", ErrSourceUnavailable, err)
		}
	}

	for _, sc := range raw {
		if sc.ID == "" {
			// Malformed entries are dropped, not fatal to the batch.
			continue
		}
		result[sc.ID] = normalizeCard(sc)
	}
	return result, nil
}

type catalogResponse struct {
	Data []string `json:"data"`
}

// CardTypes returns Scryfall's card type catalog.
func (s *ScryfallService) CardTypes(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/catalog/card-types", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.do(ctx, req, "card_types")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var catalog catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("%w: failed to decode card types: %v", ErrSourceUnavailable, err)
	}
	return catalog.Data, nil
}

type setsResponse struct {
	Data []models.CardSet `json:"data"`
}

// Sets returns the list of Scryfall sets.
func (s *ScryfallService) Sets(ctx context.Context) ([]models.CardSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/sets", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.do(ctx, req, "sets")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sets setsResponse
	if err := json.NewDecoder(resp.Body).Decode(&sets); err != nil {
		return nil, fmt.Errorf("%w: failed to decode sets: %v", ErrSourceUnavailable, err)
	}
	return sets.Data, nil
}

// normalizeCard converts a raw Scryfall record into the internal Card
// shape. Every optional field tolerates being absent and maps to nil.
// The legendary/land flags are derived here, once, from the type line.
func normalizeCard(sc scryfallCard) models.Card {
	if sc.ID == "" {
		log.Printf("Warning: card ID is empty for card %q", sc.Name)
	}

	var imageURL *string
	if sc.ImageURIs != nil {
		imageURL = optString(sc.ImageURIs.Normal)
	}

	return models.Card{
		ID:          sc.ID,
		Name:        sc.Name,
		ManaCost:    optString(sc.ManaCost),
		TypeLine:    optString(sc.TypeLine),
		OracleText:  optString(sc.OracleText),
		PriceUSD:    optString(sc.Prices.USD),
		PriceFoil:   optString(sc.Prices.USDFoil),
		ImageURL:    imageURL,
		SetName:     optString(sc.SetName),
		IsLegendary: typeLineContains(sc.TypeLine, "legendary"),
		IsLand:      typeLineContains(sc.TypeLine, "land"),
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func typeLineContains(typeLine, substr string) bool {
	return strings.Contains(strings.ToLower(typeLine), substr)
}
