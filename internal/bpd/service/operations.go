package service

import (
	"context"

	"bpd/internal/bpd/api"
	"bpd/internal/bpd/models"
	"bpd/internal/bpd/outcome"
	"bpd/internal/bpd/projection"
	"bpd/pkg/domain"
	dErrors "bpd/pkg/domain-errors"
	audit "bpd/pkg/platform/audit"
)

// GetCitizen returns the citizen profile with its payment methods.
// Not audited. No rows is NotFound.
func (s *Service) GetCitizen(ctx context.Context, id domain.CitizenID) outcome.Outcome {
	return s.run(ctx, audit.OperationGetBPDCitizen, func(ctx context.Context) (any, error) {
		fc, err := s.resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		rows, err := query(ctx, s, "citizen", msgCitizenQuery, func(ctx context.Context) ([]models.CitizenRow, error) {
			return s.store.FindCitizen(ctx, fc)
		})
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return nil, dErrors.New(dErrors.CodeNotFound, "Citizen not found")
		}
		return project(ctx, s, rows, projection.ToAPIBPDCitizen)
	})
}

// GetAwards returns the citizen's awards. Not audited. No rows is an empty
// list.
func (s *Service) GetAwards(ctx context.Context, id domain.CitizenID) outcome.Outcome {
	return s.run(ctx, audit.OperationGetBPDAwards, func(ctx context.Context) (any, error) {
		fc, err := s.resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		rows, err := query(ctx, s, "awards", msgAwardsQuery, func(ctx context.Context) ([]models.AwardRow, error) {
			return s.store.FindAwards(ctx, fc)
		})
		if err != nil {
			return nil, err
		}
		return project(ctx, s, rows, func(rows []models.AwardRow) (*api.AwardsList, error) {
			return projection.ToAPIAwardsList(fc.String(), rows)
		})
	})
}

// GetTransactions returns the citizen's transactions. Audited before the
// query runs; no rows is an empty list.
func (s *Service) GetTransactions(ctx context.Context, id domain.CitizenID) outcome.Outcome {
	return s.run(ctx, audit.OperationGetBPDTransactions, func(ctx context.Context) (any, error) {
		fc, err := s.resolve(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.recordAudit(ctx, audit.OperationGetBPDTransactions, fc); err != nil {
			return nil, err
		}
		rows, err := query(ctx, s, "transactions", msgTransactionsQuery, func(ctx context.Context) ([]models.TransactionRow, error) {
			return s.store.FindTransactions(ctx, fc)
		})
		if err != nil {
			return nil, err
		}
		return project(ctx, s, rows, projection.ToAPITransactionList)
	})
}
