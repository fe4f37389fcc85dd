package entity

// RawOffer is one priced itinerary exactly as a fare provider returned it.
// Nothing in it is validated; the normalizer is the only consumer.
type RawOffer struct {
	ID          string         `json:"id"`
	Source      string         `json:"source"`
	DeepLink    string         `json:"deepLink,omitempty"`
	Itineraries []RawItinerary `json:"itineraries"`
	Price       RawPrice       `json:"price"`
}

// RawItinerary is one direction of travel made of one or more segments.
type RawItinerary struct {
	Duration string       `json:"duration"`
	Segments []RawSegment `json:"segments"`
}

// RawSegment is a single flown leg.
type RawSegment struct {
	CarrierCode string      `json:"carrierCode"`
	Number      string      `json:"number"`
	Departure   RawEndpoint `json:"departure"`
	Arrival     RawEndpoint `json:"arrival"`
}

// RawEndpoint is an airport and a local timestamp ("2006-01-02T15:04:05").
type RawEndpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

// RawPrice keeps amounts as the provider's decimal strings.
type RawPrice struct {
	Currency   string `json:"currency"`
	Base       string `json:"base"`
	Total      string `json:"total"`
	GrandTotal string `json:"grandTotal"`
}

// CloneRawOffers deep copies a batch so cached batches are never shared.
func CloneRawOffers(offers []RawOffer) []RawOffer {
	if offers == nil {
		return nil
	}
	out := make([]RawOffer, len(offers))
	for i, o := range offers {
		out[i] = o
		out[i].Itineraries = make([]RawItinerary, len(o.Itineraries))
		for j, it := range o.Itineraries {
			out[i].Itineraries[j] = it
			out[i].Itineraries[j].Segments = append([]RawSegment(nil), it.Segments...)
		}
	}
	return out
}
