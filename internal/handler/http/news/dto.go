package news

import "istanbul-news/internal/domain/entity"

// ItemResponse is the JSON shape of a single news item.
type ItemResponse struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Image    string `json:"image,omitempty"`
	Source   string `json:"source"`
	Date     string `json:"date"`
	District string `json:"district"`
}

// toResponse maps domain items to the response shape. The result is never
// nil so an empty list serializes as [] rather than null.
func toResponse(items []entity.NewsItem) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ItemResponse{
			Title:    it.Title,
			Link:     it.Link,
			Image:    it.Image,
			Source:   it.Source,
			Date:     it.Date,
			District: it.District,
		})
	}
	return out
}
