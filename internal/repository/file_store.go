package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"placar/internal/domain"
	"placar/pkg/logger"
)

// errNoChange aborts an update without rewriting the data file
var errNoChange = errors.New("no change")

// fileDataset is the on-disk document holding every collection
type fileDataset struct {
	Players     []playerRow     `json:"players"`
	Suggestions []suggestionRow `json:"suggestions"`
	Matches     []matchRow      `json:"matches"`
}

// FileStore keeps all records in a single JSON document. Every mutation
// holds the store mutex across read, modify and write, and the document is
// replaced by atomic rename.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger *logger.Logger
}

// NewFileStore opens or initializes the data file at path
func NewFileStore(path string, log *logger.Logger) (*FileStore, error) {
	if log == nil {
		log = logger.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &FileStore{path: path, logger: log}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.write(&fileDataset{}); err != nil {
			return nil, err
		}
		log.Info("Initialized empty data file", zap.String("path", path))
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat data file: %w", err)
	}

	// Surface a corrupt file at startup rather than on first request
	if _, err := s.read(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore) read() (*fileDataset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var ds fileDataset
	if len(data) == 0 {
		return &ds, nil
	}
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to decode data file: %w", err)
	}
	return &ds, nil
}

func (s *FileStore) write(ds *fileDataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode data file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

// view runs fn against a snapshot of the dataset
func (s *FileStore) view(ctx context.Context, fn func(ds *fileDataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.read()
	if err != nil {
		return err
	}
	return fn(ds)
}

// update runs fn against the dataset and persists it unless fn fails.
// Returning errNoChange skips the write without reporting an error.
func (s *FileStore) update(ctx context.Context, fn func(ds *fileDataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(ds); err != nil {
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}
	return s.write(ds)
}

// Backend names the store implementation
func (s *FileStore) Backend() string {
	return "file"
}

// Health checks that the data file is readable
func (s *FileStore) Health(ctx context.Context) error {
	return s.view(ctx, func(*fileDataset) error { return nil })
}

// Close is a no-op; every operation opens the file afresh
func (s *FileStore) Close() error {
	return nil
}

// ListPlayers returns every player
func (s *FileStore) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	var players []domain.Player
	err := s.view(ctx, func(ds *fileDataset) error {
		players = make([]domain.Player, 0, len(ds.Players))
		for _, row := range ds.Players {
			players = append(players, row.toDomain())
		}
		return nil
	})
	return players, err
}

// GetPlayer retrieves a player by ID
func (s *FileStore) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	var player *domain.Player
	err := s.view(ctx, func(ds *fileDataset) error {
		for _, row := range ds.Players {
			if row.ID == id {
				p := row.toDomain()
				player = &p
				break
			}
		}
		return nil
	})
	return player, err
}

// PlayersExist reports whether every given ID belongs to a player
func (s *FileStore) PlayersExist(ctx context.Context, ids ...string) (bool, error) {
	exists := true
	err := s.view(ctx, func(ds *fileDataset) error {
		known := make(map[string]struct{}, len(ds.Players))
		for _, row := range ds.Players {
			known[row.ID] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := known[id]; !ok {
				exists = false
				break
			}
		}
		return nil
	})
	return exists, err
}

// CreatePlayer appends a new player
func (s *FileStore) CreatePlayer(ctx context.Context, player *domain.Player) error {
	return s.update(ctx, func(ds *fileDataset) error {
		ds.Players = append(ds.Players, playerRowFrom(player))
		return nil
	})
}

// UpdatePlayer replaces a player's name
func (s *FileStore) UpdatePlayer(ctx context.Context, player *domain.Player) (bool, error) {
	found := false
	err := s.update(ctx, func(ds *fileDataset) error {
		for i := range ds.Players {
			if ds.Players[i].ID == player.ID {
				ds.Players[i].Name = player.Name
				found = true
				return nil
			}
		}
		return errNoChange
	})
	return found, err
}

// DeletePlayer removes a player
func (s *FileStore) DeletePlayer(ctx context.Context, id string) (bool, error) {
	found := false
	err := s.update(ctx, func(ds *fileDataset) error {
		for i := range ds.Players {
			if ds.Players[i].ID == id {
				ds.Players = append(ds.Players[:i], ds.Players[i+1:]...)
				found = true
				return nil
			}
		}
		return errNoChange
	})
	return found, err
}

// CountPlayerReferences counts suggestions or matches where the player is home or away
func (s *FileStore) CountPlayerReferences(ctx context.Context, collection Collection, playerID string) (int, error) {
	count := 0
	err := s.view(ctx, func(ds *fileDataset) error {
		switch collection {
		case CollectionSuggestions:
			for _, row := range ds.Suggestions {
				if row.HomeID == playerID || row.AwayID == playerID {
					count++
				}
			}
		case CollectionMatches:
			for _, row := range ds.Matches {
				if row.HomeID == playerID || row.AwayID == playerID {
					count++
				}
			}
		default:
			return fmt.Errorf("unsupported reference collection %q", collection)
		}
		return nil
	})
	return count, err
}

// ListSuggestions returns every pending suggestion
func (s *FileStore) ListSuggestions(ctx context.Context) ([]domain.Suggestion, error) {
	var suggestions []domain.Suggestion
	err := s.view(ctx, func(ds *fileDataset) error {
		suggestions = make([]domain.Suggestion, 0, len(ds.Suggestions))
		for _, row := range ds.Suggestions {
			suggestions = append(suggestions, row.toDomain())
		}
		return nil
	})
	return suggestions, err
}

// GetSuggestion retrieves a suggestion by ID
func (s *FileStore) GetSuggestion(ctx context.Context, id string) (*domain.Suggestion, error) {
	var suggestion *domain.Suggestion
	err := s.view(ctx, func(ds *fileDataset) error {
		if i := indexSuggestion(ds, id); i >= 0 {
			sg := ds.Suggestions[i].toDomain()
			suggestion = &sg
		}
		return nil
	})
	return suggestion, err
}

// CreateSuggestion appends a new suggestion
func (s *FileStore) CreateSuggestion(ctx context.Context, suggestion *domain.Suggestion) error {
	return s.update(ctx, func(ds *fileDataset) error {
		ds.Suggestions = append(ds.Suggestions, suggestionRowFrom(suggestion))
		return nil
	})
}

// DeleteSuggestion removes a suggestion
func (s *FileStore) DeleteSuggestion(ctx context.Context, id string) (bool, error) {
	found := false
	err := s.update(ctx, func(ds *fileDataset) error {
		i := indexSuggestion(ds, id)
		if i < 0 {
			return errNoChange
		}
		ds.Suggestions = append(ds.Suggestions[:i], ds.Suggestions[i+1:]...)
		found = true
		return nil
	})
	return found, err
}

// ApproveSuggestion moves a suggestion into the matches collection in one write
func (s *FileStore) ApproveSuggestion(ctx context.Context, id string, approve ApproveFunc) (*domain.Match, error) {
	var match *domain.Match
	err := s.update(ctx, func(ds *fileDataset) error {
		i := indexSuggestion(ds, id)
		if i < 0 {
			return errNoChange
		}

		m := approve(ds.Suggestions[i].toDomain())
		ds.Matches = append(ds.Matches, matchRowFrom(&m))
		ds.Suggestions = append(ds.Suggestions[:i], ds.Suggestions[i+1:]...)
		match = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// ListMatches returns every match
func (s *FileStore) ListMatches(ctx context.Context) ([]domain.Match, error) {
	var matches []domain.Match
	err := s.view(ctx, func(ds *fileDataset) error {
		matches = make([]domain.Match, 0, len(ds.Matches))
		for _, row := range ds.Matches {
			matches = append(matches, row.toDomain())
		}
		return nil
	})
	return matches, err
}

// GetMatch retrieves a match by ID
func (s *FileStore) GetMatch(ctx context.Context, id string) (*domain.Match, error) {
	var match *domain.Match
	err := s.view(ctx, func(ds *fileDataset) error {
		if i := indexMatch(ds, id); i >= 0 {
			m := ds.Matches[i].toDomain()
			match = &m
		}
		return nil
	})
	return match, err
}

// UpdateMatch replaces a stored match
func (s *FileStore) UpdateMatch(ctx context.Context, match *domain.Match) (bool, error) {
	found := false
	err := s.update(ctx, func(ds *fileDataset) error {
		i := indexMatch(ds, match.ID)
		if i < 0 {
			return errNoChange
		}
		ds.Matches[i] = matchRowFrom(match)
		found = true
		return nil
	})
	return found, err
}

// DeleteMatch removes a match
func (s *FileStore) DeleteMatch(ctx context.Context, id string) (bool, error) {
	found := false
	err := s.update(ctx, func(ds *fileDataset) error {
		i := indexMatch(ds, id)
		if i < 0 {
			return errNoChange
		}
		ds.Matches = append(ds.Matches[:i], ds.Matches[i+1:]...)
		found = true
		return nil
	})
	return found, err
}

func indexSuggestion(ds *fileDataset, id string) int {
	for i := range ds.Suggestions {
		if ds.Suggestions[i].ID == id {
			return i
		}
	}
	return -1
}

func indexMatch(ds *fileDataset, id string) int {
	for i := range ds.Matches {
		if ds.Matches[i].ID == id {
			return i
		}
	}
	return -1
}
