package data

import (
	"github.com/wenlabs/wentracker/internal/biz/repo"
	"github.com/wenlabs/wentracker/internal/infra/farcaster"
)

// Repositories contains all repositories
type Repositories struct {
	Source  repo.MessageSource
	History repo.HistoryRepo
}

// NewRepositories creates all repositories. historyDBPath may be empty
// when no snapshot store is wanted (one-shot CLI runs).
func NewRepositories(client *farcaster.Client, historyDBPath string) (*Repositories, error) {
	repos := &Repositories{Source: client}

	if historyDBPath != "" {
		historyRepo, err := NewHistoryRepo(historyDBPath)
		if err != nil {
			return nil, err
		}
		repos.History = historyRepo
	}

	return repos, nil
}
