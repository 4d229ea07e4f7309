// Package membership exposes the administrative membership endpoints:
// approvals, rejections, corrections, and the manual job triggers.
package membership

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexus/internal/application/membership/usecases"
	memberdto "nexus/internal/interfaces/http/handlers/membership"
	"nexus/internal/shared/constants"
	"nexus/internal/shared/errors"
	"nexus/internal/shared/logger"
	"nexus/internal/shared/utils"
)

type AdminHandler struct {
	listUC                 *usecases.ListMembershipsUseCase
	approveUC              *usecases.ApproveMembershipUseCase
	rejectUC               *usecases.RejectMembershipUseCase
	rejectUpgradeUC        *usecases.RejectPlanUpgradeUseCase
	approveReconsumptionUC *usecases.ApproveReconsumptionUseCase
	rejectReconsumptionUC  *usecases.RejectReconsumptionUseCase
	updateUC               *usecases.UpdateMembershipUseCase
	welcomeKitUC           *usecases.UpdateWelcomeKitUseCase
	manualSubscriptionUC   *usecases.ManualSubscriptionUseCase
	cutUC                  *usecases.RunReconsumptionCutUseCase
	weeklyUC               *usecases.RunWeeklySettlementUseCase
	logger                 logger.Interface
}

func NewAdminHandler(
	listUC *usecases.ListMembershipsUseCase,
	approveUC *usecases.ApproveMembershipUseCase,
	rejectUC *usecases.RejectMembershipUseCase,
	rejectUpgradeUC *usecases.RejectPlanUpgradeUseCase,
	approveReconsumptionUC *usecases.ApproveReconsumptionUseCase,
	rejectReconsumptionUC *usecases.RejectReconsumptionUseCase,
	updateUC *usecases.UpdateMembershipUseCase,
	welcomeKitUC *usecases.UpdateWelcomeKitUseCase,
	manualSubscriptionUC *usecases.ManualSubscriptionUseCase,
	cutUC *usecases.RunReconsumptionCutUseCase,
	weeklyUC *usecases.RunWeeklySettlementUseCase,
) *AdminHandler {
	return &AdminHandler{
		listUC:                 listUC,
		approveUC:              approveUC,
		rejectUC:               rejectUC,
		rejectUpgradeUC:        rejectUpgradeUC,
		approveReconsumptionUC: approveReconsumptionUC,
		rejectReconsumptionUC:  rejectReconsumptionUC,
		updateUC:               updateUC,
		welcomeKitUC:           welcomeKitUC,
		manualSubscriptionUC:   manualSubscriptionUC,
		cutUC:                  cutUC,
		weeklyUC:               weeklyUC,
		logger:                 logger.NewLogger(),
	}
}

// ListMemberships handles GET /admin/memberships
func (h *AdminHandler) ListMemberships(c *gin.Context) {
	req := parseListRequest(c)

	result, err := h.listUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c,
		memberdto.NewMembershipResponses(result.Memberships),
		result.Total, req.Page, req.PageSize)
}

// ApproveMembership handles POST /admin/memberships/:id/approve
func (h *AdminHandler) ApproveMembership(c *gin.Context) {
	membershipID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ApproveMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	m, err := h.approveUC.Execute(c.Request.Context(), usecases.ApproveMembershipCommand{
		MembershipID:     membershipID,
		PaymentReference: req.PaymentReference,
		Notes:            req.Notes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Membership approved", memberdto.NewMembershipResponse(m))
}

// RejectMembership handles POST /admin/memberships/:id/reject
func (h *AdminHandler) RejectMembership(c *gin.Context) {
	membershipID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	if err := h.rejectUC.Execute(c.Request.Context(), usecases.RejectMembershipCommand{
		MembershipID: membershipID,
		Reason:       req.Reason,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Membership rejected", nil)
}

// RejectUpgrade handles POST /admin/memberships/:id/reject-upgrade
func (h *AdminHandler) RejectUpgrade(c *gin.Context) {
	membershipID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	m, err := h.rejectUpgradeUC.Execute(c.Request.Context(), usecases.RejectPlanUpgradeCommand{
		MembershipID: membershipID,
		Reason:       req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Plan upgrade rejected", memberdto.NewMembershipResponse(m))
}

// ApproveReconsumption handles POST /admin/reconsumptions/:id/approve
func (h *AdminHandler) ApproveReconsumption(c *gin.Context) {
	reconsumptionID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ApproveReconsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	result, err := h.approveReconsumptionUC.Execute(c.Request.Context(), usecases.ApproveReconsumptionCommand{
		ReconsumptionID:  reconsumptionID,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reconsumption approved", gin.H{
		"reconsumption":  memberdto.NewReconsumptionResponse(result.Reconsumption),
		"new_start_date": result.NewStartDate,
		"new_end_date":   result.NewEndDate,
	})
}

// RejectReconsumption handles POST /admin/reconsumptions/:id/reject
func (h *AdminHandler) RejectReconsumption(c *gin.Context) {
	reconsumptionID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	if err := h.rejectReconsumptionUC.Execute(c.Request.Context(), usecases.RejectReconsumptionCommand{
		ReconsumptionID: reconsumptionID,
		Reason:          req.Reason,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reconsumption rejected", nil)
}

// UpdateMembership handles PATCH /admin/memberships/:id
func (h *AdminHandler) UpdateMembership(c *gin.Context) {
	membershipID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	m, err := h.updateUC.Execute(c.Request.Context(), req.ToCommand(membershipID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Membership updated", memberdto.NewMembershipResponse(m))
}

// MarkWelcomeKitDelivered handles POST /admin/memberships/:id/welcome-kit
func (h *AdminHandler) MarkWelcomeKitDelivered(c *gin.Context) {
	membershipID, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	m, err := h.welcomeKitUC.Execute(c.Request.Context(), membershipID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Welcome kit marked as delivered", memberdto.NewMembershipResponse(m))
}

// CreateManualSubscription handles POST /admin/memberships/manual
func (h *AdminHandler) CreateManualSubscription(c *gin.Context) {
	var req ManualSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	result, err := h.manualSubscriptionUC.Execute(c.Request.Context(), usecases.ManualSubscriptionCommand{
		Email:  req.Email,
		PlanID: req.PlanID,
		Notes:  req.Notes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, memberdto.NewMembershipResponse(result.Membership), "Membership created")
}

// RunCut handles POST /admin/jobs/reconsumption-cut
func (h *AdminHandler) RunCut(c *gin.Context) {
	adminID := c.GetString(constants.ContextKeyUserID)
	h.logger.Infow("manual reconsumption cut triggered", "admin_id", adminID)

	result, err := h.cutUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reconsumption cut completed", NewCutResponse(result))
}

// RunWeeklySettlement handles POST /admin/jobs/weekly-settlement
func (h *AdminHandler) RunWeeklySettlement(c *gin.Context) {
	adminID := c.GetString(constants.ContextKeyUserID)
	h.logger.Infow("manual weekly settlement triggered", "admin_id", adminID)

	if err := h.weeklyUC.Execute(c.Request.Context()); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Weekly settlement completed", nil)
}
