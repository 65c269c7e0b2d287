package repository

import (
	"context"
	"math/big"
	"time"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/internal/domain/repository"

	"github.com/ethereum/go-ethereum/common"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOracleEventRepository implements OracleEventRepository
type MongoOracleEventRepository struct {
	requests  *mongo.Collection
	responses *mongo.Collection
	reports   *mongo.Collection
}

// oracleEventDocument is the stored form of requests, responses and reports
type oracleEventDocument struct {
	Index       int       `bson:"index"`
	Airline     string    `bson:"airline"`
	Flight      string    `bson:"flight"`
	Timestamp   string    `bson:"timestamp"`
	Oracle      string    `bson:"oracle,omitempty"`
	Status      int       `bson:"status"`
	BlockNumber int64     `bson:"blockNumber,omitempty"`
	TxHash      string    `bson:"txHash,omitempty"`
	Error       string    `bson:"error,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// NewMongoOracleEventRepository creates a new oracle event repository
func NewMongoOracleEventRepository(db *mongo.Database) repository.OracleEventRepository {
	requests := db.Collection("oracle_requests")
	responses := db.Collection("oracle_responses")
	reports := db.Collection("oracle_reports")

	// Create indexes for listing newest first and looking up a flight
	ctx := context.Background()
	for _, collection := range []*mongo.Collection{requests, responses, reports} {
		collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.M{"createdAt": -1}},
			{Keys: bson.D{
				{Key: "airline", Value: 1},
				{Key: "flight", Value: 1},
				{Key: "timestamp", Value: 1},
			}},
		})
	}

	return &MongoOracleEventRepository{
		requests:  requests,
		responses: responses,
		reports:   reports,
	}
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func parseBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return v
}

// SaveRequest stores a received OracleRequest
func (r *MongoOracleEventRepository) SaveRequest(ctx context.Context, request *entity.OracleRequest) error {
	_, err := r.requests.InsertOne(ctx, oracleEventDocument{
		Index:       int(request.Index),
		Airline:     request.Airline.Hex(),
		Flight:      request.Flight,
		Timestamp:   bigString(request.Timestamp),
		BlockNumber: int64(request.BlockNumber),
		TxHash:      request.TxHash.Hex(),
		CreatedAt:   request.ReceivedAt,
	})
	return err
}

// SaveResponse stores a submitted oracle response
func (r *MongoOracleEventRepository) SaveResponse(ctx context.Context, response *entity.OracleResponse) error {
	_, err := r.responses.InsertOne(ctx, oracleEventDocument{
		Index:     int(response.Index),
		Airline:   response.Airline.Hex(),
		Flight:    response.Flight,
		Timestamp: bigString(response.Timestamp),
		Oracle:    response.Oracle.Hex(),
		Status:    int(response.Status),
		TxHash:    response.TxHash.Hex(),
		Error:     response.Error,
		CreatedAt: response.SubmittedAt,
	})
	return err
}

// SaveReport stores a received OracleReport
func (r *MongoOracleEventRepository) SaveReport(ctx context.Context, report *entity.OracleReport) error {
	_, err := r.reports.InsertOne(ctx, oracleEventDocument{
		Airline:     report.Airline.Hex(),
		Flight:      report.Flight,
		Timestamp:   bigString(report.Timestamp),
		Status:      int(report.Status),
		BlockNumber: int64(report.BlockNumber),
		TxHash:      report.TxHash.Hex(),
		CreatedAt:   report.ReceivedAt,
	})
	return err
}

func (r *MongoOracleEventRepository) list(ctx context.Context, collection *mongo.Collection, skip, limit int) ([]oracleEventDocument, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []oracleEventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListResponses returns submitted responses, newest first
func (r *MongoOracleEventRepository) ListResponses(ctx context.Context, skip, limit int) ([]*entity.OracleResponse, error) {
	docs, err := r.list(ctx, r.responses, skip, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*entity.OracleResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, &entity.OracleResponse{
			Index:       uint8(doc.Index),
			Airline:     common.HexToAddress(doc.Airline),
			Flight:      doc.Flight,
			Timestamp:   parseBig(doc.Timestamp),
			Oracle:      common.HexToAddress(doc.Oracle),
			Status:      entity.StatusCode(doc.Status),
			TxHash:      common.HexToHash(doc.TxHash),
			Error:       doc.Error,
			SubmittedAt: doc.CreatedAt,
		})
	}
	return responses, nil
}

// ListReports returns received reports, newest first
func (r *MongoOracleEventRepository) ListReports(ctx context.Context, skip, limit int) ([]*entity.OracleReport, error) {
	docs, err := r.list(ctx, r.reports, skip, limit)
	if err != nil {
		return nil, err
	}

	reports := make([]*entity.OracleReport, 0, len(docs))
	for _, doc := range docs {
		reports = append(reports, &entity.OracleReport{
			Airline:     common.HexToAddress(doc.Airline),
			Flight:      doc.Flight,
			Timestamp:   parseBig(doc.Timestamp),
			Status:      entity.StatusCode(doc.Status),
			BlockNumber: uint64(doc.BlockNumber),
			TxHash:      common.HexToHash(doc.TxHash),
			ReceivedAt:  doc.CreatedAt,
		})
	}
	return reports, nil
}
