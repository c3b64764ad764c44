package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"cotizador-platform/lib/config"
	"cotizador-platform/lib/models"
	"cotizador-platform/lib/sicetac"
	"cotizador-platform/lib/utils"
	"cotizador-platform/services/quotes/interfaces"

	kafkaConfig "cotizador-platform/lib/kafka"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
)

type QuotesService struct {
	db            *pgxpool.Pool
	redisClient   *redis.Client
	mongoClient   *mongo.Client
	sicetacClient *sicetac.Client
	priceWriter   *kafka.Writer
	cache         *QuoteCache
}

func NewQuotesService(db *pgxpool.Pool, redisClient *redis.Client, mongoClient *mongo.Client, sicetacClient *sicetac.Client) interfaces.QuotesInterface {
	return &QuotesService{
		db:            db,
		redisClient:   redisClient,
		mongoClient:   mongoClient,
		sicetacClient: sicetacClient,
		priceWriter:   kafkaConfig.InitKafkaWriter("price_updates"),
		cache:         NewQuoteCache(redisClient, config.GetQuoteCacheTTL()),
	}
}

// statusForError maps the protocol client's error taxonomy onto HTTP. The
// upstream's "no information" sentinel and empty result sets are not-found
// conditions; transport and protocol failures are bad-gateway.
func statusForError(err error) (int, string) {
	var busErr *sicetac.UpstreamBusinessError
	if errors.As(err, &busErr) {
		return http.StatusNotFound, busErr.Message
	}
	var nfErr *sicetac.NotFoundError
	if errors.As(err, &nfErr) {
		return http.StatusNotFound, nfErr.Reason
	}
	var tErr *sicetac.TransportError
	if errors.As(err, &tErr) {
		return http.StatusBadGateway, "Sicetac service is unreachable"
	}
	var pErr *sicetac.ProtocolError
	if errors.As(err, &pErr) {
		return http.StatusBadGateway, "Failed to parse response from Sicetac"
	}
	return http.StatusInternalServerError, err.Error()
}

func currentUser(c *gin.Context) (utils.UserRequest, bool) {
	value, ok := c.Get("user")
	if !ok {
		return utils.UserRequest{}, false
	}
	user, ok := value.(utils.UserRequest)
	return user, ok
}

// fetchQuotes consults the cache, falls back to the gateway and records the
// exchange outcome. Cached hits publish no price updates.
func (s *QuotesService) fetchQuotes(ctx context.Context, query models.QuoteQuery, userID string) ([]models.QuoteResult, error) {
	if quotes, ok := s.cache.Get(ctx, query); ok {
		return quotes, nil
	}

	started := time.Now()
	quotes, err := s.sicetacClient.FetchQuotes(ctx, query)
	audit := ExchangeAudit{
		Period:        query.Period,
		Configuration: query.Configuration,
		Origin:        query.Origin,
		Destination:   query.Destination,
		UserID:        userID,
		Duration:      time.Since(started),
		QuoteCount:    len(quotes),
	}
	if err != nil {
		audit.Outcome = "error"
		audit.ErrorDetail = err.Error()
		go s.recordExchange(audit)
		return nil, err
	}
	audit.Outcome = "ok"
	go s.recordExchange(audit)

	s.cache.Set(ctx, query, quotes)
	go s.publishPriceUpdates(query, quotes)

	return quotes, nil
}

func (s *QuotesService) publishPriceUpdates(query models.QuoteQuery, quotes []models.QuoteResult) {
	messages := make([]kafka.Message, 0, len(quotes))
	for _, quote := range quotes {
		update := models.PriceUpdate{
			RouteID:       quote.RouteCode,
			Origin:        query.Origin,
			Destination:   query.Destination,
			Configuration: query.Configuration,
			Price:         quote.MinimumPayable,
			Timestamp:     time.Now().UTC(),
			Source:        "sicetac",
		}
		payload, err := json.Marshal(update)
		if err != nil {
			log.Printf("Error marshaling price update: %v", err)
			continue
		}
		messages = append(messages, kafka.Message{Key: []byte(quote.RouteCode), Value: payload})
	}
	if len(messages) == 0 {
		return
	}
	if err := s.priceWriter.WriteMessages(context.Background(), messages...); err != nil {
		log.Printf("Error publishing price updates: %v", err)
	}
}

func (s *QuotesService) HandleQuoteEstimate(c *gin.Context) {
	var query models.QuoteQuery
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := query.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, _ := currentUser(c)
	quotes, err := s.fetchQuotes(c.Request.Context(), query, user.UserID)
	if err != nil {
		status, detail := statusForError(err)
		c.JSON(status, gin.H{"error": detail})
		return
	}

	c.JSON(http.StatusOK, models.QuoteResponse{Request: query, Quotes: quotes})
}

type quotationCreate struct {
	Request     models.QuoteQuery `json:"request"`
	CompanyName string            `json:"company_name"`
	Notes       string            `json:"notes"`
}

type quotationUpdate struct {
	CompanyName        *string `json:"company_name"`
	Notes              *string `json:"notes"`
	SelectedQuoteIndex *int    `json:"selected_quote_index"`
	Status             *string `json:"status"`
}

func (s *QuotesService) HandleCreateQuotation(c *gin.Context) {
	var body quotationCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := body.Request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, _ := currentUser(c)
	quotes, err := s.fetchQuotes(c.Request.Context(), body.Request, user.UserID)
	if err != nil {
		status, detail := statusForError(err)
		c.JSON(status, gin.H{"error": detail})
		return
	}

	var totalCost *float64
	for _, quote := range quotes {
		if totalCost == nil || quote.MinimumPayable < *totalCost {
			value := quote.MinimumPayable
			totalCost = &value
		}
	}

	quotesData, err := json.Marshal(quotes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error serializing quotes"})
		return
	}

	quotation := models.Quotation{
		ID:              uuid.NewString(),
		Period:          body.Request.Period,
		Configuration:   body.Request.Configuration,
		OriginCode:      body.Request.Origin,
		DestinationCode: body.Request.Destination,
		CargoType:       body.Request.CargoType,
		UnitType:        body.Request.UnitType,
		LogisticsHours:  body.Request.LogisticsHours,
		Quotes:          quotes,
		UserID:          user.UserID,
		CompanyName:     body.CompanyName,
		Notes:           body.Notes,
		Status:          "active",
		TotalCost:       totalCost,
	}

	row := s.db.QueryRow(c.Request.Context(),
		`INSERT INTO quotations
			(id, period, configuration, origin_code, destination_code, cargo_type, unit_type,
			 logistics_hours, quotes_data, user_id, company_name, notes, status, total_cost)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING created_at, updated_at`,
		quotation.ID, quotation.Period, quotation.Configuration, quotation.OriginCode,
		quotation.DestinationCode, quotation.CargoType, quotation.UnitType,
		quotation.LogisticsHours, quotesData, quotation.UserID, quotation.CompanyName,
		quotation.Notes, quotation.Status, quotation.TotalCost)
	if err := row.Scan(&quotation.CreatedAt, &quotation.UpdatedAt); err != nil {
		log.Printf("Error inserting quotation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error storing quotation"})
		return
	}

	c.JSON(http.StatusCreated, quotation)
}

const quotationColumns = `id, created_at, updated_at, period, configuration, origin_code,
	destination_code, cargo_type, unit_type, logistics_hours, quotes_data, user_id,
	company_name, notes, status, total_cost, selected_quote_index`

func scanQuotation(row pgx.Row) (models.Quotation, error) {
	var q models.Quotation
	var quotesData []byte
	var cargoType, unitType, userID, companyName, notes *string
	err := row.Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt, &q.Period, &q.Configuration,
		&q.OriginCode, &q.DestinationCode, &cargoType, &unitType, &q.LogisticsHours,
		&quotesData, &userID, &companyName, &notes, &q.Status, &q.TotalCost,
		&q.SelectedQuoteIndex)
	if err != nil {
		return q, err
	}
	if cargoType != nil {
		q.CargoType = *cargoType
	}
	if unitType != nil {
		q.UnitType = *unitType
	}
	if userID != nil {
		q.UserID = *userID
	}
	if companyName != nil {
		q.CompanyName = *companyName
	}
	if notes != nil {
		q.Notes = *notes
	}
	if err := json.Unmarshal(quotesData, &q.Quotes); err != nil {
		return q, err
	}
	return q, nil
}

func (s *QuotesService) HandleListQuotations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid auth token"})
		return
	}

	status := c.DefaultQuery("status", "active")
	rows, err := s.db.Query(c.Request.Context(),
		`SELECT `+quotationColumns+` FROM quotations
		 WHERE user_id = $1 AND status = $2
		 ORDER BY created_at DESC LIMIT 100`, user.UserID, status)
	if err != nil {
		log.Printf("Error listing quotations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing quotations"})
		return
	}
	defer rows.Close()

	quotations := make([]models.Quotation, 0)
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			log.Printf("Error scanning quotation: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error reading quotations"})
			return
		}
		quotations = append(quotations, q)
	}

	c.JSON(http.StatusOK, quotations)
}

func (s *QuotesService) HandleGetQuotation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid auth token"})
		return
	}

	row := s.db.QueryRow(c.Request.Context(),
		`SELECT `+quotationColumns+` FROM quotations
		 WHERE id = $1 AND user_id = $2 AND status != 'deleted'`,
		c.Param("id"), user.UserID)
	quotation, err := scanQuotation(row)
	if err == pgx.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "quotation not found"})
		return
	}
	if err != nil {
		log.Printf("Error reading quotation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error reading quotation"})
		return
	}

	c.JSON(http.StatusOK, quotation)
}

func (s *QuotesService) HandleUpdateQuotation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid auth token"})
		return
	}

	var body quotationUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.Status != nil && *body.Status != "active" && *body.Status != "archived" && *body.Status != "deleted" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active, archived or deleted"})
		return
	}

	tag, err := s.db.Exec(c.Request.Context(),
		`UPDATE quotations SET
			company_name = COALESCE($1, company_name),
			notes = COALESCE($2, notes),
			selected_quote_index = COALESCE($3, selected_quote_index),
			status = COALESCE($4, status),
			updated_at = NOW()
		 WHERE id = $5 AND user_id = $6 AND status != 'deleted'`,
		body.CompanyName, body.Notes, body.SelectedQuoteIndex, body.Status,
		c.Param("id"), user.UserID)
	if err != nil {
		log.Printf("Error updating quotation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating quotation"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "quotation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "quotation updated"})
}

func (s *QuotesService) HandleDeleteQuotation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid auth token"})
		return
	}

	// Soft delete keeps the record for audits; listings filter it out.
	tag, err := s.db.Exec(c.Request.Context(),
		`UPDATE quotations SET status = 'deleted', updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND status != 'deleted'`,
		c.Param("id"), user.UserID)
	if err != nil {
		log.Printf("Error deleting quotation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting quotation"})
		return
	}
	if tag.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "quotation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "quotation deleted"})
}

func (s *QuotesService) GracefulShutdown(server *http.Server) {
	utils.WaitForShutdown(server, s.redisClient, s.priceWriter)
	s.db.Close()
}
