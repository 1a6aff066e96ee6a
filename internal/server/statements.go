package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/RestaurantDev/ViceVault/internal/model"
	"github.com/RestaurantDev/ViceVault/internal/notifier"
	"github.com/RestaurantDev/ViceVault/internal/recorder"
	"github.com/RestaurantDev/ViceVault/internal/statement"
)

const maxStatementBytes = 10 << 20

// ImportStatement parses a raw statement dump, ranks vice spending against the
// taxonomy and records the import. Parsing never fails; garbage in means an
// empty transaction list out.
func (s *Server) ImportStatement(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxStatementBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "statement too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	text := string(body)
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "empty statement body")
		return
	}

	p := s.parser
	if v := r.URL.Query().Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil || year < 1970 || year > 2200 {
			writeError(w, http.StatusBadRequest, "year must be a four-digit year")
			return
		}
		p = &statement.Parser{ReferenceYear: year}
	}

	txs := p.Parse(text)
	ranking := s.taxonomy.Rank(txs)

	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	topCategory := ""
	if len(ranking) > 0 {
		topCategory = ranking[0].Category
	}

	if err := s.recorder.RecordImport(&recorder.ImportEvent{
		TransactionCount: len(txs),
		TotalAmount:      total,
		TopCategory:      topCategory,
		SourceChars:      len(text),
		Transactions:     txs,
	}); err != nil {
		log.Printf("[ERROR] record import: %v", err)
	}

	if s.notifier != nil {
		msg := notifier.FormatImportReport(len(txs), total, ranking)
		go func() {
			if err := s.notifier.SendWithRetry(context.Background(), msg, 3); err != nil {
				log.Printf("[ERROR] send import notice: %v", err)
			}
		}()
	}

	if txs == nil {
		txs = []model.ParsedTransaction{}
	}
	if ranking == nil {
		ranking = []model.CategoryMatch{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":        len(txs),
		"total_amount": total,
		"transactions": txs,
		"categories":   ranking,
	})
}
