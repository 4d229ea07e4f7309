// Package membership exposes the member-facing membership endpoints.
package membership

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexus/internal/application/membership/usecases"
	"nexus/internal/shared/authorization"
	"nexus/internal/shared/constants"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
	"nexus/internal/shared/utils"
)

type MembershipHandler struct {
	statusUC             *usecases.GetMembershipStatusUseCase
	listPlansUC          *usecases.ListPlansUseCase
	pricingUC            *usecases.EvaluatePricingUseCase
	subscribeUC          *usecases.ProcessSubscriptionUseCase
	reconsumeUC          *usecases.CreateReconsumptionUseCase
	listReconsumptionsUC *usecases.ListReconsumptionsUseCase
	listHistoryUC        *usecases.ListHistoryUseCase
	logger               logger.Interface
}

func NewMembershipHandler(
	statusUC *usecases.GetMembershipStatusUseCase,
	listPlansUC *usecases.ListPlansUseCase,
	pricingUC *usecases.EvaluatePricingUseCase,
	subscribeUC *usecases.ProcessSubscriptionUseCase,
	reconsumeUC *usecases.CreateReconsumptionUseCase,
	listReconsumptionsUC *usecases.ListReconsumptionsUseCase,
	listHistoryUC *usecases.ListHistoryUseCase,
) *MembershipHandler {
	return &MembershipHandler{
		statusUC:             statusUC,
		listPlansUC:          listPlansUC,
		pricingUC:            pricingUC,
		subscribeUC:          subscribeUC,
		reconsumeUC:          reconsumeUC,
		listReconsumptionsUC: listReconsumptionsUC,
		listHistoryUC:        listHistoryUC,
		logger:               logger.NewLogger(),
	}
}

func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	if userID == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
		return "", false
	}
	return userID, true
}

// GetStatus handles GET /memberships/me
func (h *MembershipHandler) GetStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.statusUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", NewStatusResponse(result))
}

// ListPlans handles GET /memberships/plans
func (h *MembershipHandler) ListPlans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	options, err := h.listPlansUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	plans := make([]PlanResponse, 0, len(options))
	for _, opt := range options {
		plans = append(plans, NewPlanResponse(opt))
	}
	utils.SuccessResponse(c, http.StatusOK, "", plans)
}

// GetPricing handles GET /memberships/plans/:id/pricing
func (h *MembershipHandler) GetPricing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	planID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid plan id"))
		return
	}

	result, err := h.pricingUC.Execute(c.Request.Context(), usecases.EvaluatePricingCommand{
		UserID: userID,
		PlanID: planID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", PricingResponse{
		TotalAmount: result.TotalAmount,
		IsUpgrade:   result.IsUpgrade,
		PlanID:      result.RequestedPlan.ID(),
		PlanName:    result.RequestedPlan.Name(),
	})
}

// Subscribe handles POST /memberships
func (h *MembershipHandler) Subscribe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid subscription request body", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	result, err := h.subscribeUC.Execute(c.Request.Context(), req.ToCommand(userID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	resp := SubscriptionResponse{
		Membership:  NewMembershipResponse(result.Membership),
		IsUpgrade:   result.IsUpgrade,
		TotalAmount: result.TotalAmount,
	}
	if result.Receipt != nil {
		resp.PaymentID = result.Receipt.PaymentID
	}
	utils.CreatedResponse(c, resp, "Subscription request created")
}

// Reconsume handles POST /memberships/reconsumptions
func (h *MembershipHandler) Reconsume(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ReconsumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid reconsumption request body", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	result, err := h.reconsumeUC.Execute(c.Request.Context(), req.ToCommand(userID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	resp := ReconsumptionCreatedResponse{
		Reconsumption: NewReconsumptionResponse(result.Reconsumption),
		TotalAmount:   result.TotalAmount,
		Renewed:       result.Renewed,
	}
	if result.Receipt != nil {
		resp.PaymentID = result.Receipt.PaymentID
	}
	utils.CreatedResponse(c, resp, "Reconsumption request created")
}

// ListReconsumptions handles GET /memberships/reconsumptions
func (h *MembershipHandler) ListReconsumptions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.listReconsumptionsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"reconsumptions": NewReconsumptionResponses(result.Reconsumptions),
		"can_reconsume":  result.CanReconsume,
	})
}

// ListHistory handles GET /memberships/:id/history
func (h *MembershipHandler) ListHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	membershipID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid membership id"))
		return
	}

	history, err := h.listHistoryUC.Execute(c.Request.Context(), usecases.ListHistoryQuery{
		MembershipID: membershipID,
		CallerID:     userID,
		CallerRole:   authorization.ParseUserRole(c.GetString(constants.ContextKeyUserRole)),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", NewHistoryResponses(history))
}
