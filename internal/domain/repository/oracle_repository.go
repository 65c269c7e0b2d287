package repository

import (
	"context"

	"flightsurety-service/internal/domain/entity"
)

// OracleRegistry holds the oracle registrations made at startup
type OracleRegistry interface {
	Add(registration entity.OracleRegistration)
	All() []entity.OracleRegistration
	Matching(index uint8) []entity.OracleRegistration
	Len() int
}

// OracleEventRepository records oracle traffic seen and produced by the relay
type OracleEventRepository interface {
	SaveRequest(ctx context.Context, request *entity.OracleRequest) error
	SaveResponse(ctx context.Context, response *entity.OracleResponse) error
	SaveReport(ctx context.Context, report *entity.OracleReport) error
	ListResponses(ctx context.Context, skip, limit int) ([]*entity.OracleResponse, error)
	ListReports(ctx context.Context, skip, limit int) ([]*entity.OracleReport, error)
}
