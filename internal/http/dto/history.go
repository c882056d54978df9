package dto

import (
	"github.com/cesargomez89/vibefinder/internal/store"
)

type SearchHistoryResponse struct {
	Searches []store.SearchRecord `json:"searches"`
	Count    int                  `json:"count"`
}

func FromSearchRecords(recs []store.SearchRecord) SearchHistoryResponse {
	if recs == nil {
		recs = []store.SearchRecord{}
	}
	return SearchHistoryResponse{Searches: recs, Count: len(recs)}
}
