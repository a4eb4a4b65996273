package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/categorizer/internal/application/usecase/transaction"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
	"github.com/finance-tracker/categorizer/internal/integration/entrypoint/dto"
)

// TransactionController handles transaction endpoints.
type TransactionController struct {
	listUseCase           *transaction.ListTransactionsUseCase
	createUseCase         *transaction.CreateTransactionUseCase
	updateUseCase         *transaction.UpdateTransactionUseCase
	deleteUseCase         *transaction.DeleteTransactionUseCase
	bulkCategorizeUseCase *transaction.BulkCategorizeTransactionsUseCase
	importUseCase         *transaction.ImportTransactionsUseCase
}

// NewTransactionController creates a new transaction controller instance.
func NewTransactionController(
	listUseCase *transaction.ListTransactionsUseCase,
	createUseCase *transaction.CreateTransactionUseCase,
	updateUseCase *transaction.UpdateTransactionUseCase,
	deleteUseCase *transaction.DeleteTransactionUseCase,
	bulkCategorizeUseCase *transaction.BulkCategorizeTransactionsUseCase,
	importUseCase *transaction.ImportTransactionsUseCase,
) *TransactionController {
	return &TransactionController{
		listUseCase:           listUseCase,
		createUseCase:         createUseCase,
		updateUseCase:         updateUseCase,
		deleteUseCase:         deleteUseCase,
		bulkCategorizeUseCase: bulkCategorizeUseCase,
		importUseCase:         importUseCase,
	}
}

// List handles GET /transactions requests.
func (c *TransactionController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	input := transaction.ListTransactionsInput{
		UserID:        userID,
		Search:        ctx.Query("search"),
		Uncategorized: ctx.Query("uncategorized") == "true",
	}

	// Malformed optional filters are ignored
	if startDateStr := ctx.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse(dto.DateLayout, startDateStr); err == nil {
			input.StartDate = &startDate
		}
	}
	if endDateStr := ctx.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse(dto.DateLayout, endDateStr); err == nil {
			input.EndDate = &endDate
		}
	}
	if categoryIDsStr := ctx.Query("category_id"); categoryIDsStr != "" {
		for _, idStr := range strings.Split(categoryIDsStr, ",") {
			if id, err := uuid.Parse(strings.TrimSpace(idStr)); err == nil {
				input.CategoryIDs = append(input.CategoryIDs, id)
			}
		}
	}
	if typeStr := ctx.Query("type"); typeStr != "" {
		txnType := entity.TransactionType(typeStr)
		input.Type = &txnType
	}
	if page, err := strconv.Atoi(ctx.Query("page")); err == nil {
		input.Page = page
	}
	if limit, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		input.Limit = limit
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTransactionListResponse(output))
}

// Create handles POST /transactions requests.
func (c *TransactionController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingTransactionFields),
		})
		return
	}

	row, errResponse := toImportRow(req)
	if errResponse != nil {
		ctx.JSON(http.StatusBadRequest, errResponse)
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), transaction.CreateTransactionInput{
		UserID:      userID,
		Date:        row.Date,
		Description: row.Description,
		Merchant:    row.Merchant,
		Amount:      row.Amount,
		Type:        row.Type,
		CategoryID:  row.CategoryID,
		Notes:       row.Notes,
	})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreateTransactionResponse{
		TransactionResponse: dto.ToTransactionResponse(output.Transaction),
		AutoCategorized:     output.AutoCategorized,
	})
}

// Update handles PATCH /transactions/:id requests.
func (c *TransactionController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	transactionID, ok := parseIDParam(ctx, "id", "transaction")
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	input := transaction.UpdateTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
		Description:   req.Description,
		Merchant:      req.Merchant,
		Amount:        req.Amount,
		Notes:         req.Notes,
		Recategorize:  req.Recategorize,
	}

	if req.Date != nil {
		date, err := time.Parse(dto.DateLayout, *req.Date)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid date format. Use YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidTransactionDate),
			})
			return
		}
		input.Date = &date
	}
	if req.Type != nil {
		txnType := entity.TransactionType(*req.Type)
		input.Type = &txnType
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid category ID format",
			})
			return
		}
		input.CategoryID = &categoryID
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UpdateTransactionResponse{
		TransactionResponse: dto.ToTransactionResponse(output.Transaction),
		Recategorized:       output.Recategorized,
	})
}

// Delete handles DELETE /transactions/:id requests.
func (c *TransactionController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	transactionID, ok := parseIDParam(ctx, "id", "transaction")
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), transaction.DeleteTransactionInput{
		TransactionID: transactionID,
		UserID:        userID,
	})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// BulkCategorize handles POST /transactions/bulk-categorize requests.
func (c *TransactionController) BulkCategorize(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.BulkCategorizeTransactionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeEmptyTransactionIDs),
		})
		return
	}

	ids := make([]uuid.UUID, 0, len(req.TransactionIDs))
	for _, idStr := range req.TransactionIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid transaction ID format",
			})
			return
		}
		ids = append(ids, id)
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid category ID format",
		})
		return
	}

	output, err := c.bulkCategorizeUseCase.Execute(ctx.Request.Context(), transaction.BulkCategorizeTransactionsInput{
		TransactionIDs: ids,
		CategoryID:     categoryID,
		UserID:         userID,
	})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.BulkCategorizeTransactionsResponse{
		UpdatedCount: output.UpdatedCount,
	})
}

// Import handles POST /transactions/import requests.
func (c *TransactionController) Import(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.ImportTransactionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeEmptyImport),
		})
		return
	}

	rows := make([]transaction.ImportRow, len(req.Transactions))
	for i, item := range req.Transactions {
		row, errResponse := toImportRow(item)
		if errResponse != nil {
			errResponse.Error = "row " + strconv.Itoa(i) + ": " + errResponse.Error
			ctx.JSON(http.StatusBadRequest, errResponse)
			return
		}
		rows[i] = row
	}

	output, err := c.importUseCase.Execute(ctx.Request.Context(), transaction.ImportTransactionsInput{
		UserID: userID,
		Rows:   rows,
	})
	if err != nil {
		c.handleTransactionError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToImportTransactionsResponse(output))
}

// toImportRow parses the string fields of a transaction request.
func toImportRow(req dto.CreateTransactionRequest) (transaction.ImportRow, *dto.ErrorResponse) {
	date, err := time.Parse(dto.DateLayout, req.Date)
	if err != nil {
		return transaction.ImportRow{}, &dto.ErrorResponse{
			Error: "Invalid date format. Use YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeInvalidTransactionDate),
		}
	}

	var categoryID *uuid.UUID
	if req.CategoryID != nil && *req.CategoryID != "" {
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return transaction.ImportRow{}, &dto.ErrorResponse{
				Error: "Invalid category ID format",
			}
		}
		categoryID = &id
	}

	return transaction.ImportRow{
		Date:        date,
		Description: req.Description,
		Merchant:    req.Merchant,
		Amount:      req.Amount,
		Type:        entity.TransactionType(req.Type),
		CategoryID:  categoryID,
		Notes:       req.Notes,
	}, nil
}

// handleTransactionError handles transaction errors and returns appropriate HTTP responses.
func (c *TransactionController) handleTransactionError(ctx *gin.Context, err error) {
	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		ctx.JSON(c.getStatusCodeForTransactionError(txnErr.Code), dto.ErrorResponse{
			Error: txnErr.Message,
			Code:  string(txnErr.Code),
		})
		return
	}

	respondInternalError(ctx, err)
}

// getStatusCodeForTransactionError maps transaction error codes to HTTP status codes.
func (c *TransactionController) getStatusCodeForTransactionError(code domainerror.TransactionErrorCode) int {
	switch code {
	case domainerror.ErrCodeTransactionNotFound,
		domainerror.ErrCodeTxnCategoryNotFound,
		domainerror.ErrCodeTransactionIDsNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeImportTooLarge:
		return http.StatusRequestEntityTooLarge
	case domainerror.ErrCodeInvalidTransactionType,
		domainerror.ErrCodeInvalidTransactionDate,
		domainerror.ErrCodeInvalidTransactionAmount,
		domainerror.ErrCodeNotesTooLong,
		domainerror.ErrCodeDescriptionTooLong,
		domainerror.ErrCodeMerchantTooLong,
		domainerror.ErrCodeMissingTransactionFields,
		domainerror.ErrCodeEmptyTransactionIDs,
		domainerror.ErrCodeEmptyImport:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
