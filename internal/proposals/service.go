package proposals

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/compose-network/cao-console/internal/cao"
	"github.com/compose-network/cao-console/internal/logger"
	"github.com/compose-network/cao-console/internal/output"
	"github.com/ethereum/go-ethereum/common"
)

// Gateway is the part of *cao.Gateway the proposal commands use.
type Gateway interface {
	ActiveProposals(ctx context.Context) ([]*cao.Proposal, error)
	ProposalDetails(ctx context.Context, id *big.Int) (*cao.ProposalDetails, error)
	CreateProposal(ctx context.Context, draft cao.ProposalDraft) (common.Hash, error)
	CastVote(ctx context.Context, id *big.Int, direction cao.Direction, reason string) (common.Hash, error)
	Execute(ctx context.Context, id *big.Int, value *big.Int) (common.Hash, error)
}

type Service struct {
	gateway Gateway
	printer *output.Printer
	logger  *slog.Logger
}

func NewService(gateway Gateway, printer *output.Printer) *Service {
	return &Service{
		gateway: gateway,
		printer: printer,
		logger:  logger.Named("proposals"),
	}
}

func (s *Service) List(ctx context.Context) error {
	proposals, err := s.gateway.ActiveProposals(ctx)
	if err != nil {
		return fmt.Errorf("failed to read active proposals: %w", err)
	}
	s.logger.With("count", len(proposals)).Debug("active proposals read")

	return s.printer.Print(newListView(proposals))
}

func (s *Service) Show(ctx context.Context, id *big.Int) error {
	details, err := s.gateway.ProposalDetails(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to read proposal %s: %w", id, err)
	}
	return s.printer.Print(newDetailsView(details))
}

func (s *Service) Create(ctx context.Context, draft cao.ProposalDraft) error {
	hash, err := s.gateway.CreateProposal(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to create proposal: %w", err)
	}
	s.logger.With("calls", len(draft.Calls)).
		With("blocks_delay", draft.BlocksDelay).
		With("blocks_duration", draft.BlocksDuration).
		With("tx", hash.Hex()).
		Info("proposal submitted")

	return s.printer.Print(output.NewTransaction("create proposal", hash))
}

func (s *Service) Vote(ctx context.Context, id *big.Int, direction cao.Direction, reason string) error {
	hash, err := s.gateway.CastVote(ctx, id, direction, reason)
	if err != nil {
		return fmt.Errorf("failed to vote on proposal %s: %w", id, err)
	}
	s.logger.With("proposal", id.String()).With("direction", direction.String()).With("tx", hash.Hex()).Info("vote submitted")

	return s.printer.Print(output.NewTransaction(fmt.Sprintf("vote %s proposal %s", direction, id), hash))
}

func (s *Service) Execute(ctx context.Context, id *big.Int, value *big.Int) error {
	hash, err := s.gateway.Execute(ctx, id, value)
	if err != nil {
		return fmt.Errorf("failed to execute proposal %s: %w", id, err)
	}
	s.logger.With("proposal", id.String()).With("tx", hash.Hex()).Info("execution submitted")

	return s.printer.Print(output.NewTransaction(fmt.Sprintf("execute proposal %s", id), hash))
}
