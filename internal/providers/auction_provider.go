package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"vehicle-auction/inventory/internal/common"
	"vehicle-auction/inventory/internal/config"
	"vehicle-auction/inventory/internal/constants"
	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/metrics"
	"vehicle-auction/inventory/internal/models/dtos"
)

const (
	endpointToken  = "token"
	endpointColors = "colors"
	endpointSearch = "search"
)

// AuctionSource is the upstream wholesale-auction API
type AuctionSource interface {
	Authenticate(ctx context.Context) (*oauth2.Token, error)
	FetchColorMap(ctx context.Context, token *oauth2.Token) map[string]string
	Search(ctx context.Context, token *oauth2.Token, req SearchRequest) ([]json.RawMessage, error)
}

// SearchRequest is one page of one state partition
type SearchRequest struct {
	States      []string
	SellerTypes []string
	Start       int
	Limit       int
}

// ManheimProvider talks to the Manheim buyer/seller search API
type ManheimProvider struct {
	BaseURL     string
	Client      *http.Client
	credentials *clientcredentials.Config
	metrics     *metrics.MetricsRegistry
}

// NewManheimProvider creates a provider from source config. reg may be nil.
func NewManheimProvider(cfg config.SourceConfig, reg *metrics.MetricsRegistry) *ManheimProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var scopes []string
	if cfg.Scope != "" {
		scopes = []string{cfg.Scope}
	}

	return &ManheimProvider{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		credentials: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		metrics: reg,
	}
}

// GetProviderType returns the tag written to every listing
func (p *ManheimProvider) GetProviderType() string {
	return constants.APISourceTag
}

// Authenticate exchanges the client credentials for a bearer token
func (p *ManheimProvider) Authenticate(ctx context.Context) (*oauth2.Token, error) {
	if p.credentials.ClientID == "" || p.credentials.ClientSecret == "" {
		p.observe(endpointToken, "error")
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidCredentials,
			Message: "auction API client credentials are not configured",
		}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.Client)
	token, err := p.credentials.Token(ctx)
	if err != nil {
		p.observe(endpointToken, "error")
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
			(retrieveErr.Response.StatusCode == http.StatusUnauthorized || retrieveErr.Response.StatusCode == http.StatusBadRequest) {
			return nil, newProviderError(constants.ErrCodeInvalidCredentials, err)
		}
		return nil, newProviderError(constants.ErrCodeAuthenticationFailed, err)
	}
	if token.AccessToken == "" {
		p.observe(endpointToken, "error")
		return nil, &ProviderError{
			Code:    constants.ErrCodeAuthenticationFailed,
			Message: "token response did not contain an access token",
		}
	}

	p.observe(endpointToken, "ok")
	logging.Debug("Auction API token acquired", "expires_at", tokenExpiry(token))
	return token, nil
}

// tokenExpiry prefers the JWT exp claim and falls back to expires_in
func tokenExpiry(token *oauth2.Token) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return token.Expiry
}

// FetchColorMap loads the exterior color taxonomy as id -> name.
// Failures are logged and yield an empty map so ingestion can continue.
func (p *ManheimProvider) FetchColorMap(ctx context.Context, token *oauth2.Token) map[string]string {
	colorMap := make(map[string]string)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/search/taxonomy/exteriorColors", nil)
	if err != nil {
		logging.Warn("Failed to build color taxonomy request", "error", err)
		return colorMap
	}

	var result dtos.ColorTaxonomyResponse
	if err := p.do(req, token, endpointColors, &result); err != nil {
		logging.Warn("Color taxonomy unavailable, continuing without color names",
			"code", ErrorCode(err),
			"error", err,
		)
		return colorMap
	}

	for _, item := range result.Items {
		if item.ID != "" && item.Name != "" {
			colorMap[item.ID.String()] = item.Name
		}
	}
	return colorMap
}

// Search fetches one page of listings for a state partition
func (p *ManheimProvider) Search(ctx context.Context, token *oauth2.Token, sr SearchRequest) ([]json.RawMessage, error) {
	if sr.Limit <= 0 {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "search limit must be greater than 0",
		}
	}

	payload := newSearchPayload(sr)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, newProviderError(constants.ErrCodeInvalidDataFormat, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/searches", bytes.NewReader(body))
	if err != nil {
		return nil, newProviderError(constants.ErrCodeNetworkError, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var result dtos.SearchResponse
	if err := p.do(req, token, endpointSearch, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

func newSearchPayload(sr SearchRequest) dtos.SearchPayload {
	return dtos.SearchPayload{
		ExecuteNow:                true,
		IncludeFacets:             false,
		FirstTimeListed:           true,
		IncludeFilters:            false,
		SellerTypes:               sr.SellerTypes,
		HasFrameDamage:            false,
		StartBuyNowPrice:          1,
		PickupLocationStates:      sr.States,
		OdometerCheckOK:           true,
		AsIs:                      false,
		PreviouslyCanadianListing: false,
		SalvageVehicle:            false,
		TitleAndProblemCheckOK:    true,
		Fields:                    constants.SearchFields,
		Limit:                     sr.Limit,
		Start:                     sr.Start,
	}
}

// ============================================================================
// HTTP Helper Methods
// ============================================================================

// do sends req with the bearer token and decodes a JSON body into result
func (p *ManheimProvider) do(req *http.Request, token *oauth2.Token, endpoint string, result interface{}) error {
	req.Header.Set("Accept", "application/json")
	if token != nil {
		token.SetAuthHeader(req)
	}
	common.LogHTTPRequest(logging.GetLogger(), req)

	resp, err := p.Client.Do(req)
	if err != nil {
		p.observe(endpoint, "error")
		return newProviderError(constants.ErrCodeNetworkError, err)
	}
	defer resp.Body.Close()

	if err := handleHTTPError(resp); err != nil {
		p.observe(endpoint, "error")
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		p.observe(endpoint, "error")
		return newProviderError(constants.ErrCodeInvalidDataFormat, err)
	}

	p.observe(endpoint, "ok")
	return nil
}

func (p *ManheimProvider) observe(endpoint, outcome string) {
	if p.metrics == nil {
		return
	}
	p.metrics.SourceRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
}
