package services

import (
	"fmt"
	"io"
	"time"

	"github.com/username/yuhfolio/src/database"
	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/model"
	"github.com/username/yuhfolio/src/models"
	"github.com/username/yuhfolio/src/parsers"
	"github.com/username/yuhfolio/src/processors"
)

type importServiceImpl struct {
	positionProcessor *processors.PositionProcessor
	portfolioService  PortfolioService
}

func NewImportService(positionProcessor *processors.PositionProcessor, portfolioService PortfolioService) ImportService {
	return &importServiceImpl{
		positionProcessor: positionProcessor,
		portfolioService:  portfolioService,
	}
}

// ProcessImport parses the export, appends only the rows that are not already
// stored, rebuilds the current_positions snapshot, and returns exactly the
// newly appended rows. Importing the same file twice appends nothing the
// second time.
//
// A row is new iff no stored row matches it across all canonical columns; the
// surrogate id never participates. Two identical real trades therefore
// collapse into one stored row — a known limit of the full-row join.
func (s *importServiceImpl) ProcessImport(fileReader io.Reader, source string) ([]models.Transaction, error) {
	startTime := time.Now()
	logger.L.Info("ProcessImport START", "source", source)

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	parsed, err := parser.Parse(fileReader)
	if err != nil {
		// Schema errors pass through untouched so the handler can render the
		// missing/found column lists.
		if schemaErr, ok := err.(*models.SchemaError); ok {
			return nil, schemaErr
		}
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	if len(parsed) == 0 {
		logger.L.Info("ProcessImport END: no recognized rows in file", "source", source)
		return []models.Transaction{}, nil
	}

	existing, err := model.GetTransactions(database.DB)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	newRows := []models.Transaction{}
	for _, tx := range parsed {
		duplicate := false
		for _, stored := range existing {
			if tx.EqualsIgnoringID(stored) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			newRows = append(newRows, tx)
		}
	}

	if len(newRows) > 0 {
		if err := model.InsertTransactions(database.DB, newRows); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if err := s.refreshPositionSnapshot(); err != nil {
			// The log is the source of truth; a stale snapshot is tolerable.
			logger.L.Error("Failed to refresh position snapshot after import", "error", err)
		}
		s.portfolioService.InvalidateCache()
	}

	logger.L.Info("ProcessImport END", "source", source, "parsed", len(parsed),
		"inserted", len(newRows), "duration", time.Since(startTime))
	return newRows, nil
}

// refreshPositionSnapshot is the materialized-view step: recompute positions
// from the full log and replace the current_positions table wholesale.
func (s *importServiceImpl) refreshPositionSnapshot() error {
	txs, err := model.GetTransactions(database.DB)
	if err != nil {
		return err
	}
	positions := s.positionProcessor.Process(txs)
	return model.ReplacePositions(database.DB, positions)
}
