package dapp

import (
	"errors"
	"net/http"
	"time"

	"flightsurety-service/internal/domain/entity"
	"flightsurety-service/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

const resultLabel = "RESULT:"

// Row is one display row: a label with either a value or an error
type Row struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Label       string      `json:"label"`
	Value       interface{} `json:"value,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// Handler serves the dapp HTTP API
type Handler struct {
	ctrl   Controller
	logger logger.Logger
}

// NewHandler creates a new dapp API handler
func NewHandler(ctrl Controller, logger logger.Logger) *Handler {
	return &Handler{
		ctrl:   ctrl,
		logger: logger,
	}
}

// NewRouter builds the gin engine serving the dapp API
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(h.logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})

	api := r.Group("/api")
	api.GET("/status", h.Status)
	api.GET("/accounts", h.Accounts)
	api.GET("/airlines", h.Airlines)
	api.GET("/airlines/count", h.AirlinesCount)
	api.GET("/airlines/directory", h.AirlineDirectory)
	api.POST("/airlines", h.RegisterAirline)
	api.POST("/airlines/vote", h.VoteAirline)
	api.POST("/airlines/fund", h.FundAirline)
	api.GET("/flights", h.Flights)
	api.GET("/flights/:code", h.Flight)
	api.POST("/flights/register", h.RegisterFlight)
	api.POST("/insurance", h.BuyInsurance)
	api.POST("/oracles/fetch", h.FetchFlightStatus)
	api.GET("/oracles", h.Oracles)
	api.POST("/oracles/register", h.RegisterOracles)
	api.POST("/claims", h.CheckFlightInsurance)
	api.POST("/credits", h.CheckCredits)
	api.POST("/credits/withdraw", h.WithdrawCredits)

	return r
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("Request served",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrFlightNotFound), errors.Is(err, entity.ErrAirlineNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidInsuranceAmount):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func (h *Handler) ok(c *gin.Context, row Row, value interface{}) {
	row.Value = value
	c.JSON(http.StatusOK, row)
}

func (h *Handler) fail(c *gin.Context, row Row, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Dapp request failed", "path", c.FullPath(), "error", err)
	}
	row.Error = err.Error()
	c.JSON(status, row)
}

func (h *Handler) bind(c *gin.Context, row Row, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		row.Error = bindingMessage(err)
		c.JSON(http.StatusBadRequest, row)
		return false
	}
	return true
}

// Status handles GET /api/status
func (h *Handler) Status(c *gin.Context) {
	row := Row{Title: "Operational Status", Description: "Check if contract is operational", Label: "Operational Status"}

	operational, err := h.ctrl.IsOperational(c.Request.Context())
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, operational)
}

// Accounts handles GET /api/accounts
func (h *Handler) Accounts(c *gin.Context) {
	row := Row{Title: "Accounts", Description: "Account pool", Label: resultLabel}
	h.ok(c, row, gin.H{
		"pool":      h.ctrl.Pool(),
		"timestamp": h.ctrl.Timestamp(),
	})
}

// Airlines handles GET /api/airlines
func (h *Handler) Airlines(c *gin.Context) {
	row := Row{Title: "Airlines", Description: "Registered airlines", Label: resultLabel}

	partition, err := h.ctrl.AirlinesByRegistration(c.Request.Context())
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, partition)
}

// AirlineDirectory handles GET /api/airlines/directory
func (h *Handler) AirlineDirectory(c *gin.Context) {
	row := Row{Title: "Airlines", Description: "Airline directory", Label: resultLabel}

	airlines, err := h.ctrl.AirlineDirectory(c.Request.Context())
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, airlines)
}

// AirlinesCount handles GET /api/airlines/count
func (h *Handler) AirlinesCount(c *gin.Context) {
	row := Row{Title: "Airlines", Description: "Registered airlines count", Label: resultLabel}

	count, err := h.ctrl.AirlinesCount(c.Request.Context())
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, count.String())
}

// RegisterAirline handles POST /api/airlines
func (h *Handler) RegisterAirline(c *gin.Context) {
	row := Row{Title: "New Airline", Description: "Created Airline", Label: resultLabel}

	var req RegisterAirlineRequest
	if !h.bind(c, row, &req) {
		return
	}

	result, err := h.ctrl.RegisterAirline(c.Request.Context(), req.Name, common.HexToAddress(req.Address))
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, result)
}

// VoteAirline handles POST /api/airlines/vote
func (h *Handler) VoteAirline(c *gin.Context) {
	row := Row{Title: "New Airline", Description: "Vote Airline", Label: resultLabel}

	var req VoteAirlineRequest
	if !h.bind(c, row, &req) {
		return
	}

	registered, err := h.ctrl.VoteAirline(c.Request.Context(), common.HexToAddress(req.Candidate), common.HexToAddress(req.Voter))
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, registered)
}

// FundAirline handles POST /api/airlines/fund
func (h *Handler) FundAirline(c *gin.Context) {
	row := Row{Title: "New Airline", Description: "Funded Airline", Label: resultLabel}

	var req FundAirlineRequest
	if !h.bind(c, row, &req) {
		return
	}

	funding, err := h.ctrl.FundAirline(c.Request.Context(), common.HexToAddress(req.Address))
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, funding)
}

// Flights handles GET /api/flights
func (h *Handler) Flights(c *gin.Context) {
	row := Row{Title: "Flights", Description: "Generated flights", Label: resultLabel}
	h.ok(c, row, h.ctrl.Flights())
}

// Flight handles GET /api/flights/:code
func (h *Handler) Flight(c *gin.Context) {
	row := Row{Title: "Flights", Description: "Flight details", Label: resultLabel}

	flight, err := h.ctrl.Flight(c.Param("code"))
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, flight)
}

// RegisterFlight handles POST /api/flights/register
func (h *Handler) RegisterFlight(c *gin.Context) {
	row := Row{Title: "Flight Register", Description: "Registered", Label: resultLabel}

	var req FlightRequest
	if !h.bind(c, row, &req) {
		return
	}

	tx, err := h.ctrl.RegisterFlight(c.Request.Context(), req.Flight)
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, tx)
}

// BuyInsurance handles POST /api/insurance
func (h *Handler) BuyInsurance(c *gin.Context) {
	row := Row{Title: "Flight Insurance", Description: "Purchased", Label: resultLabel}

	var req BuyInsuranceRequest
	if !h.bind(c, row, &req) {
		return
	}

	purchase, err := h.ctrl.BuyInsurance(c.Request.Context(), req.Flight, common.HexToAddress(req.Passenger), req.Amount)
	if errors.Is(err, entity.ErrInvalidInsuranceAmount) {
		row = Row{Title: "Ether Amount", Description: "Must be less than or equal to 1 ether", Label: "Ether:"}
	}
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, purchase)
}

// FetchFlightStatus handles POST /api/oracles/fetch
func (h *Handler) FetchFlightStatus(c *gin.Context) {
	row := Row{Title: "Oracles", Description: "Trigger oracles", Label: "Fetch Flight Status"}

	var req FlightRequest
	if !h.bind(c, row, &req) {
		return
	}

	status, err := h.ctrl.FetchFlightStatus(c.Request.Context(), req.Flight)
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, status.Flight+" "+status.Status.Label)
}

// RegisterOracles handles POST /api/oracles/register
func (h *Handler) RegisterOracles(c *gin.Context) {
	row := Row{Title: "Oracles", Description: "register oracles", Label: "Oracle Indexes"}

	indices, err := h.ctrl.RegisterOracles(c.Request.Context())
	values := indexValues(indices)
	if err != nil {
		row.Value = values
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, values)
}

// Oracles handles GET /api/oracles
func (h *Handler) Oracles(c *gin.Context) {
	row := Row{Title: "Oracles", Description: "registered oracles", Label: "Oracle Indexes"}
	h.ok(c, row, indexValues(h.ctrl.Oracles()))
}

// indexValues widens indices since []uint8 would encode as base64
func indexValues(indices []uint8) []int {
	values := make([]int, len(indices))
	for i, index := range indices {
		values[i] = int(index)
	}
	return values
}

// CheckFlightInsurance handles POST /api/claims
func (h *Handler) CheckFlightInsurance(c *gin.Context) {
	row := Row{Title: "Flight Insurance", Description: "Available?", Label: resultLabel}

	var req FlightRequest
	if !h.bind(c, row, &req) {
		return
	}

	check, err := h.ctrl.CheckFlightInsurance(c.Request.Context(), req.Flight)
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, check.Message)
}

// CheckCredits handles POST /api/credits
func (h *Handler) CheckCredits(c *gin.Context) {
	row := Row{Title: "Flight Insurance Credits", Description: "Available?", Label: resultLabel}

	var req PassengerFlightRequest
	if !h.bind(c, row, &req) {
		return
	}

	check, err := h.ctrl.CheckCredits(c.Request.Context(), req.Flight, common.HexToAddress(req.Passenger))
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, check.Message)
}

// WithdrawCredits handles POST /api/credits/withdraw
func (h *Handler) WithdrawCredits(c *gin.Context) {
	row := Row{Title: "Flight Insurance Credits", Description: "Withdraw", Label: resultLabel}

	var req PassengerFlightRequest
	if !h.bind(c, row, &req) {
		return
	}

	tx, err := h.ctrl.WithdrawCredits(c.Request.Context(), req.Flight, common.HexToAddress(req.Passenger))
	if err != nil {
		h.fail(c, row, err)
		return
	}
	h.ok(c, row, tx.TxHash.Hex())
}
