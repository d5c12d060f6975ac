package service

import (
	"sitecms/internal/model"
	"sitecms/internal/repository"
)

// CaseService manages customer cases.
type CaseService interface {
	CRUDService[model.Case]
}

// NewCaseService builds a CaseService.
func NewCaseService(repo repository.Repository[model.Case]) CaseService {
	return NewCRUDService(repo, CRUDOptions{
		KeywordColumns: []string{"title", "client", "summary"},
		Order:          "display_order ASC, id DESC",
	})
}

// NewsService manages news articles.
type NewsService interface {
	CRUDService[model.News]
}

// NewNewsService builds a NewsService.
func NewNewsService(repo repository.Repository[model.News]) NewsService {
	return NewCRUDService(repo, CRUDOptions{
		KeywordColumns: []string{"title", "summary"},
		Order:          "published_at DESC, id DESC",
	})
}
