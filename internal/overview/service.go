package overview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/compose-network/cao-console/internal/cao"
	"github.com/compose-network/cao-console/internal/logger"
	"github.com/compose-network/cao-console/internal/output"
)

// Reader reads the organization snapshot; *cao.Gateway implements it.
type Reader interface {
	Overview(ctx context.Context) (*cao.Overview, error)
}

type Service struct {
	reader  Reader
	printer *output.Printer
	logger  *slog.Logger
}

func NewService(reader Reader, printer *output.Printer) *Service {
	return &Service{
		reader:  reader,
		printer: printer,
		logger:  logger.Named("overview"),
	}
}

func (s *Service) Show(ctx context.Context) error {
	overview, err := s.reader.Overview(ctx)
	if err != nil {
		return fmt.Errorf("failed to read organization overview: %w", err)
	}
	s.logger.With("reserve_tokens", len(overview.ReserveTokens)).
		With("funds", len(overview.Funds)).
		With("employees", len(overview.Employees)).
		With("unredeemed_ex_employees", len(overview.UnredeemedExEmployees)).
		Debug("overview read")

	return s.printer.Print(newOverviewView(overview))
}
