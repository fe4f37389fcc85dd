package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/internal/domain/repository"
	"farefinder-service/pkg/logger"
)

const (
	providerName     = "amadeus"
	flightOffersPath = "/v2/shopping/flight-offers"
	maxErrorBody     = 2048
)

// Client searches the Amadeus self-service flight offers API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a new fare provider against baseURL. A nil httpClient gets
// a client with the given timeout.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client, logger logger.Logger) repository.FareProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

type flightOffersResponse struct {
	Data         []entity.RawOffer `json:"data"`
	Dictionaries struct {
		Carriers map[string]string `json:"carriers"`
	} `json:"dictionaries"`
}

func (c *Client) Name() string {
	return providerName
}

// SearchOffers issues one flight-offers call. Non-2xx responses come back as
// *entity.ProviderError so the caller can tell a rejected token apart.
func (c *Client) SearchOffers(ctx context.Context, token string, query entity.SearchQuery) ([]entity.RawOffer, error) {
	reqURL := c.baseURL + flightOffersPath + "?" + buildQuery(query).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &entity.ProviderError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var response flightOffersResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	offers := response.Data
	if offers == nil {
		offers = []entity.RawOffer{}
	}
	for i := range offers {
		if offers[i].Source == "" {
			offers[i].Source = providerName
		}
	}

	c.logger.Debug("Flight offers received",
		"origin", query.Origin,
		"destination", query.Destination,
		"offers", len(offers),
		"carriers", len(response.Dictionaries.Carriers))

	return offers, nil
}

func buildQuery(query entity.SearchQuery) url.Values {
	params := url.Values{}
	params.Set("originLocationCode", strings.ToUpper(query.Origin))
	params.Set("destinationLocationCode", strings.ToUpper(query.Destination))
	params.Set("departureDate", query.Date.Format(entity.DateLayout))
	params.Set("adults", strconv.Itoa(query.Passengers.Adults))
	if query.Passengers.Children > 0 {
		params.Set("children", strconv.Itoa(query.Passengers.Children))
	}
	if query.Passengers.Infants > 0 {
		params.Set("infants", strconv.Itoa(query.Passengers.Infants))
	}
	if query.TravelClass != "" {
		params.Set("travelClass", query.TravelClass)
	}
	if query.Currency != "" {
		params.Set("currencyCode", query.Currency)
	}
	if query.MaxResults > 0 {
		params.Set("max", strconv.Itoa(query.MaxResults))
	}
	return params
}
