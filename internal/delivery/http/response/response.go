package response

type StartSearchResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	SearchID int64  `json:"search_id"`
}

type FavoriteResponse struct {
	ID         int64 `json:"id"`
	IsFavorite bool  `json:"is_favorite"`
}
