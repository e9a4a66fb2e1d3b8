package hotels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Hotel is one search result, already normalized for the client app.
type Hotel struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Rating    string `json:"rating"`
	Image     string `json:"image"`
	URL       string `json:"url"`
	Amenities string `json:"amenities,omitempty"`
}

// Client queries the Booking.com RapidAPI. Search never returns an error:
// a missing key, a transport failure, an unexpected payload or an empty
// result all substitute the deterministic mock list, so the hotels tab
// always renders something.
type Client struct {
	apiKey     string
	host       string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		host:       "booking-com.p.rapidapi.com",
		baseURL:    "https://booking-com.p.rapidapi.com",
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
}

func (c *Client) Search(ctx context.Context, destination string) []Hotel {
	if c.apiKey == "" {
		return MockHotels(destination)
	}
	results, err := c.search(ctx, destination)
	if err != nil {
		return MockHotels(destination)
	}
	return results
}

type location struct {
	DestID   string `json:"dest_id"`
	DestType string `json:"dest_type"`
}

type searchResult struct {
	Result []struct {
		HotelID                int64  `json:"hotel_id"`
		HotelName              string `json:"hotel_name"`
		ReviewScore            float64 `json:"review_score"`
		MaxPhotoURL            string `json:"max_photo_url"`
		URL                    string `json:"url"`
		CompositePriceBreakdown struct {
			GrossAmount struct {
				Value float64 `json:"value"`
			} `json:"gross_amount"`
		} `json:"composite_price_breakdown"`
	} `json:"result"`
}

func (c *Client) search(ctx context.Context, destination string) ([]Hotel, error) {
	locQuery := url.Values{"name": {destination}, "locale": {"en-gb"}}
	var locations []location
	if err := c.get(ctx, "/v1/hotels/locations", locQuery, &locations); err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, errors.New("location not found")
	}

	today := c.now().UTC()
	searchQuery := url.Values{
		"dest_id":            {locations[0].DestID},
		"search_type":        {locations[0].DestType},
		"arrival_date":       {today.Format("2006-01-02")},
		"departure_date":     {today.AddDate(0, 0, 7).Format("2006-01-02")},
		"adults_number":      {"2"},
		"room_number":        {"1"},
		"units":              {"metric"},
		"order_by":           {"popularity"},
		"filter_by_currency": {"USD"},
		"locale":             {"en-gb"},
	}
	var results searchResult
	if err := c.get(ctx, "/v1/hotels/search", searchQuery, &results); err != nil {
		return nil, err
	}
	if len(results.Result) == 0 {
		return nil, errors.New("empty hotel result")
	}

	hotels := make([]Hotel, 0, len(results.Result))
	for _, h := range results.Result {
		price := "Check Price"
		if h.CompositePriceBreakdown.GrossAmount.Value > 0 {
			price = fmt.Sprintf("%.0f", h.CompositePriceBreakdown.GrossAmount.Value)
		}
		rating := "N/A"
		if h.ReviewScore > 0 {
			rating = fmt.Sprintf("%.1f", h.ReviewScore)
		}
		hotels = append(hotels, Hotel{
			ID:        h.HotelID,
			Name:      h.HotelName,
			Price:     price,
			Rating:    rating,
			Image:     h.MaxPhotoURL,
			URL:       h.URL,
			Amenities: "Free Wifi",
		})
	}
	return hotels, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("hotel API returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
