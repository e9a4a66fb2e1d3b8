package hotels

import "strings"

// MockHotels is the offline fallback list. Thai destinations get a curated
// Bangkok set; everything else gets a templated generic trio. The output is
// deterministic for a given destination.
func MockHotels(destination string) []Hotel {
	lower := strings.ToLower(destination)
	if strings.Contains(lower, "thai") || strings.Contains(lower, "bangkok") {
		return []Hotel{
			{ID: 101, Name: "Grand Hyatt Erawan Bangkok", Price: "180", Rating: "9.1", Image: "https://images.unsplash.com/photo-1582719508461-905c673771fd?auto=format&fit=crop&w=800&q=80", URL: "#", Amenities: "Pool, Spa"},
			{ID: 102, Name: "Sala Rattanakosin", Price: "120", Rating: "8.8", Image: "https://images.unsplash.com/photo-1520250497591-112f2f40a3f4?auto=format&fit=crop&w=800&q=80", URL: "#", Amenities: "River View"},
			{ID: 103, Name: "The Siam Hotel", Price: "250", Rating: "9.5", Image: "https://images.unsplash.com/photo-1566073771259-6a8506099945?auto=format&fit=crop&w=800&q=80", URL: "#", Amenities: "Luxury"},
		}
	}
	return []Hotel{
		{ID: 1, Name: "Grand Plaza " + destination, Price: "150", Rating: "8.5", Image: "https://images.unsplash.com/photo-1566073771259-6a8506099945?auto=format&fit=crop&w=800&q=80", URL: "#"},
		{ID: 2, Name: destination + " City Inn", Price: "95", Rating: "7.9", Image: "https://images.unsplash.com/photo-1520250497591-112f2f40a3f4?auto=format&fit=crop&w=800&q=80", URL: "#"},
		{ID: 3, Name: "Sunset Resort", Price: "210", Rating: "9.2", Image: "https://images.unsplash.com/photo-1582719508461-905c673771fd?auto=format&fit=crop&w=800&q=80", URL: "#"},
	}
}
