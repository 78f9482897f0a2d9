package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const historyFile = "historico.json"

// historyLimit caps the file; the oldest runs fall off first.
const historyLimit = 50

// RunSummary is the permanent record of one finished run, win or loss.
type RunSummary struct {
	RunID        string   `json:"id_partida"`
	Character    string   `json:"personagem"`
	Class        string   `json:"classe"`
	Level        int      `json:"nivel"`
	Depth        int      `json:"nivel_masmorra"`
	Difficulty   string   `json:"dificuldade"`
	Outcome      string   `json:"resultado"`
	CauseOfDeath string   `json:"causa_da_morte,omitempty"`
	DeepestBoss  string   `json:"chefe_mais_profundo,omitempty"`
	PlotOutcome  string   `json:"trama_desfecho,omitempty"`
	Stats        RunStats `json:"estatisticas"`
	FinishedAt   string   `json:"encerrada_em"`
}

// AppendHistory records a finished run.  History failures never abort
// the run summary flow, so callers get a log entry instead of an error
// they cannot act on.
func (s *Store) AppendHistory(summary RunSummary) {
	if summary.RunID == "" {
		summary.RunID = uuid.NewString()
	}
	if summary.FinishedAt == "" {
		summary.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	}
	runs, err := s.History()
	if err != nil {
		s.logger.Warn("historico ilegivel, recomeçando", zap.Error(err))
		runs = nil
	}
	runs = append(runs, summary)
	if len(runs) > historyLimit {
		runs = runs[len(runs)-historyLimit:]
	}
	raw, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		s.logger.Warn("serializando historico", zap.Error(err))
		return
	}
	path := filepath.Join(s.dir, historyFile)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		s.logger.Warn("gravando historico", zap.Error(err))
		return
	}
	s.logger.Info("partida registrada no historico",
		zap.String("id_partida", summary.RunID),
		zap.String("resultado", summary.Outcome))
}

// History returns every recorded run, oldest first.  A missing file is
// an empty history, not an error.
func (s *Store) History() ([]RunSummary, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, historyFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("lendo historico: %w", err)
	}
	var runs []RunSummary
	if err := json.Unmarshal(raw, &runs); err != nil {
		return nil, fmt.Errorf("lendo historico: %w", err)
	}
	return runs, nil
}
