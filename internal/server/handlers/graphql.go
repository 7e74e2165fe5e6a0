package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/graphql-go/graphql"
	"github.com/vzahanych/weather-lookup/internal/graph"
	"github.com/vzahanych/weather-lookup/internal/server/utils"
	"go.uber.org/zap"
)

type GraphQLHandler struct {
	schema graphql.Schema
	logger *zap.Logger
}

func NewGraphQLHandler(schema graphql.Schema, logger *zap.Logger) *GraphQLHandler {
	return &GraphQLHandler{
		schema: schema,
		logger: logger,
	}
}

// Serve handles POST (JSON body) and GET (query string) GraphQL requests.
// GraphQL errors are reported in the response body with HTTP 200.
func (h *GraphQLHandler) Serve(c *gin.Context) {
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	req, err := bindGraphQLRequest(c)
	if err != nil {
		reqLogger.Warn("Invalid GraphQL request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid GraphQL request",
			Code:    CodeInvalidQuery,
			Details: err.Error(),
		})
		return
	}

	result := graph.Execute(utils.RequestContext(c), h.schema, req.Query, req.Variables, req.OperationName)
	if result.HasErrors() {
		messages := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			messages = append(messages, e.Message)
		}
		reqLogger.Info("GraphQL request completed with errors",
			zap.String("operation", req.OperationName),
			zap.Strings("errors", messages))
	}

	c.JSON(http.StatusOK, result)
}

func bindGraphQLRequest(c *gin.Context) (GraphQLRequest, error) {
	var req GraphQLRequest

	if c.Request.Method == http.MethodGet {
		if err := c.ShouldBindQuery(&req); err != nil {
			return req, err
		}
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return req, err
			}
		}
		return req, nil
	}

	err := c.ShouldBindJSON(&req)
	return req, err
}
