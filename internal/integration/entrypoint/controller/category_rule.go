package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	categoryrule "github.com/finance-tracker/categorizer/internal/application/usecase/category_rule"
	domainerror "github.com/finance-tracker/categorizer/internal/domain/error"
	"github.com/finance-tracker/categorizer/internal/integration/entrypoint/dto"
)

// CategoryRuleController handles category rule endpoints.
type CategoryRuleController struct {
	listUseCase     *categoryrule.ListCategoryRulesUseCase
	createUseCase   *categoryrule.CreateCategoryRuleUseCase
	updateUseCase   *categoryrule.UpdateCategoryRuleUseCase
	deleteUseCase   *categoryrule.DeleteCategoryRuleUseCase
	reorderUseCase  *categoryrule.ReorderCategoryRulesUseCase
	testUseCase     *categoryrule.TestPatternUseCase
	validateUseCase *categoryrule.ValidatePatternUseCase
	previewUseCase  *categoryrule.PreviewPatternUseCase
	applyUseCase    *categoryrule.ApplyRulesUseCase
}

// NewCategoryRuleController creates a new category rule controller instance.
func NewCategoryRuleController(
	listUseCase *categoryrule.ListCategoryRulesUseCase,
	createUseCase *categoryrule.CreateCategoryRuleUseCase,
	updateUseCase *categoryrule.UpdateCategoryRuleUseCase,
	deleteUseCase *categoryrule.DeleteCategoryRuleUseCase,
	reorderUseCase *categoryrule.ReorderCategoryRulesUseCase,
	testUseCase *categoryrule.TestPatternUseCase,
	validateUseCase *categoryrule.ValidatePatternUseCase,
	previewUseCase *categoryrule.PreviewPatternUseCase,
	applyUseCase *categoryrule.ApplyRulesUseCase,
) *CategoryRuleController {
	return &CategoryRuleController{
		listUseCase:     listUseCase,
		createUseCase:   createUseCase,
		updateUseCase:   updateUseCase,
		deleteUseCase:   deleteUseCase,
		reorderUseCase:  reorderUseCase,
		testUseCase:     testUseCase,
		validateUseCase: validateUseCase,
		previewUseCase:  previewUseCase,
		applyUseCase:    applyUseCase,
	}
}

// List handles GET /category-rules requests.
func (c *CategoryRuleController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), categoryrule.ListCategoryRulesInput{
		OwnerID:     userID,
		EnabledOnly: ctx.Query("enabled_only") == "true",
	})
	if err != nil {
		c.handleCategoryRuleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryRuleListResponse(output.Rules))
}

// Create handles POST /category-rules requests.
func (c *CategoryRuleController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateCategoryRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingRuleFields),
		})
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid category ID format",
		})
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), categoryrule.CreateCategoryRuleInput{
		Name:            req.Name,
		Description:     req.Description,
		Pattern:         req.Pattern,
		CategoryID:      categoryID,
		Priority:        req.Priority,
		Enabled:         req.Enabled,
		ApplyToExisting: req.ApplyToExisting,
		OwnerID:         userID,
	})
	if err != nil {
		c.handleCategoryRuleError(ctx, err)
		return
	}

	response := dto.ToCategoryRuleResponse(output.Rule)
	response.TransactionsUpdated = output.TransactionsUpdated
	ctx.JSON(http.StatusCreated, response)
}

// Update handles PATCH /category-rules/:id requests.
func (c *CategoryRuleController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	ruleID, ok := parseIDParam(ctx, "id", "rule")
	if !ok {
		return
	}

	var req dto.UpdateCategoryRuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	input := categoryrule.UpdateCategoryRuleInput{
		RuleID:      ruleID,
		Name:        req.Name,
		Description: req.Description,
		Pattern:     req.Pattern,
		Priority:    req.Priority,
		Enabled:     req.Enabled,
		OwnerID:     userID,
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
		c.handleCategoryRuleError(ctx, err)
		return
	}

	response := dto.ToCategoryRuleResponse(output.Rule)
	response.ChangedFields = output.ChangedFields
	ctx.JSON(http.StatusOK, response)
}

// Delete handles DELETE /category-rules/:id requests.
func (c *CategoryRuleController) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	ruleID, ok := parseIDParam(ctx, "id", "rule")
	if !ok {
		return
	}

	_, err := c.deleteUseCase.Execute(ctx.Request.Context(), categoryrule.DeleteCategoryRuleInput{
		RuleID:  ruleID,
		OwnerID: userID,
	})
	if err != nil {
		c.handleCategoryRuleError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// Reorder handles PATCH /category-rules/reorder requests.
func (c *CategoryRuleController) Reorder(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.ReorderCategoryRulesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingRuleFields),
		})
		return
	}

	ruleIDs := make([]uuid.UUID, len(req.RuleIDs))
	for i, raw := range req.RuleIDs {
		ruleID, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid rule ID format",
			})
			return
		}
		ruleIDs[i] = ruleID
	}

	output, err := c.reorderUseCase.Execute(ctx.Request.Context(), categoryrule.ReorderCategoryRulesInput{
		RuleIDs: ruleIDs,
		OwnerID: userID,
	})
	if err != nil {
		c.handleCategoryRuleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCategoryRuleListResponse(output.Rules))
}

// TestPattern handles POST /category-rules/test requests.
func (c *CategoryRuleController) TestPattern(ctx *gin.Context) {
	var req dto.TestPatternRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingRuleFields),
		})
		return
	}

	output, err := c.testUseCase.Execute(ctx.Request.Context(), categoryrule.TestPatternInput{
		Pattern:  req.Pattern,
		TestText: req.TestText,
	})
	if err != nil {
		c.handleCategoryRuleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.TestPatternResponse{
		Matches:     output.Matches,
		MatchedText: output.MatchedText,
	})
}

// ValidatePattern handles POST /category-rules/validate requests.
// An invalid pattern is a successful response with valid=false.
func (c *CategoryRuleController) ValidatePattern(ctx *gin.Context) {
	var req dto.ValidatePatternRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingRuleFields),
		})
		return
	}

	output, err := c.validateUseCase.Execute(ctx.Request.Context(), categoryrule.ValidatePatternInput{
		Pattern: req.Pattern,
	})
	if err != nil {
		c.handleCategoryRuleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ValidatePatternResponse{
		Valid: output.Valid,
		Inert: output.Inert,
		Error: output.Reason,
	})
}

// Preview handles POST /category-rules/preview requests.
func (c *CategoryRuleController) Preview(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.PreviewPatternRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingRuleFields),
		})
		return
	}

	output, err := c.previewUseCase.Execute(ctx.Request.Context(), categoryrule.PreviewPatternInput{
		Pattern: req.Pattern,
		Limit:   req.Limit,
		OwnerID: userID,
	})
	if err != nil {
		c.handleCategoryRuleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPreviewPatternResponse(output))
}

// Apply handles POST /category-rules/apply requests.
func (c *CategoryRuleController) Apply(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.applyUseCase.Execute(ctx.Request.Context(), categoryrule.ApplyRulesInput{
		OwnerID: userID,
	})
	if err != nil {
		c.handleCategoryRuleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToApplyRulesResponse(output))
}

// handleCategoryRuleError handles category rule errors and returns appropriate HTTP responses.
func (c *CategoryRuleController) handleCategoryRuleError(ctx *gin.Context, err error) {
	var ruleErr *domainerror.CategoryRuleError
	if errors.As(err, &ruleErr) {
		response := dto.ErrorResponse{
			Error: ruleErr.Message,
			Code:  string(ruleErr.Code),
		}
		if ruleErr.Code == domainerror.ErrCodeInvalidPattern && ruleErr.Err != nil {
			response.Details = ruleErr.Err.Error()
		}
		ctx.JSON(c.getStatusCodeForCategoryRuleError(ruleErr.Code), response)
		return
	}

	respondInternalError(ctx, err)
}

// getStatusCodeForCategoryRuleError maps category rule error codes to HTTP status codes.
func (c *CategoryRuleController) getStatusCodeForCategoryRuleError(code domainerror.CategoryRuleErrorCode) int {
	switch code {
	case domainerror.ErrCodeCategoryRuleNotFound,
		domainerror.ErrCodeCategoryNotFoundForRule:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedRule:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidPattern,
		domainerror.ErrCodePatternTooLong,
		domainerror.ErrCodeMissingRuleFields,
		domainerror.ErrCodeRuleNameTooLong,
		domainerror.ErrCodeRuleDescriptionTooLong,
		domainerror.ErrCodeDuplicateRuleInOrder,
		domainerror.ErrCodeIncompleteRuleOrder:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
