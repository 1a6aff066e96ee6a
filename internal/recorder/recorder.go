package recorder

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/RestaurantDev/ViceVault/internal/model"
)

// SimulationEvent holds all data for one completed simulation run.
type SimulationEvent struct {
	RequestID string
	Kind      string // "ghost" or "potential"
	Symbol    string
	Cadence   string
	Amount    float64
	StartDate string
	Points    int
	Summary   model.PortfolioSummary
	Elapsed   time.Duration
}

// ImportEvent records one statement import and the transactions it produced.
type ImportEvent struct {
	TransactionCount int
	TotalAmount      decimal.Decimal
	TopCategory      string
	SourceChars      int
	Transactions     []model.ParsedTransaction
}

// StateChange records a snapshot of the persisted state after a mutation.
type StateChange struct {
	Symbol         string
	Cadence        string
	Amount         float64
	StartDate      string
	CleanDaysCount int
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordSimulation(evt *SimulationEvent) error
	RecordImport(evt *ImportEvent) error
	RecordStateChange(evt *StateChange) error
	Close() error
}
