package membership

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"nexus/internal/application/membership/usecases"
	"nexus/internal/shared/utils"
)

type ApproveMembershipRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required,max=100"`
	Notes            string `json:"notes,omitempty" binding:"max=500"`
}

type ApproveReconsumptionRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required,max=100"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type ManualSubscriptionRequest struct {
	Email  string `json:"email" binding:"required,email"`
	PlanID uint   `json:"plan_id" binding:"required"`
	Notes  string `json:"notes,omitempty" binding:"max=500"`
}

type UpdateMembershipRequest struct {
	Status      string     `json:"status,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	AutoRenewal *bool      `json:"auto_renewal,omitempty"`
	Notes       string     `json:"notes,omitempty" binding:"max=500"`
}

func (r *UpdateMembershipRequest) ToCommand(membershipID uint) usecases.UpdateMembershipCommand {
	return usecases.UpdateMembershipCommand{
		MembershipID: membershipID,
		Status:       r.Status,
		EndDate:      r.EndDate,
		AutoRenewal:  r.AutoRenewal,
		Notes:        r.Notes,
	}
}

type ListMembershipsRequest struct {
	UserID   string
	PlanID   uint
	Status   string
	Page     int
	PageSize int
}

func (r *ListMembershipsRequest) ToCommand() usecases.ListMembershipsCommand {
	return usecases.ListMembershipsCommand{
		UserID:   r.UserID,
		PlanID:   r.PlanID,
		Status:   r.Status,
		Page:     r.Page,
		PageSize: r.PageSize,
	}
}

func parseListRequest(c *gin.Context) ListMembershipsRequest {
	pagination := utils.ParsePagination(c)

	req := ListMembershipsRequest{
		UserID:   c.Query("user_id"),
		Status:   c.Query("status"),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}

	if planID, err := strconv.ParseUint(c.Query("plan_id"), 10, 32); err == nil {
		req.PlanID = uint(planID)
	}

	return req
}

type CutItemResponse struct {
	MembershipID uint   `json:"membership_id"`
	UserID       string `json:"user_id"`
	Decision     string `json:"decision"`
	Error        string `json:"error,omitempty"`
}

type CutResponse struct {
	TotalProcessed int               `json:"total_processed"`
	SuccessCount   int               `json:"success_count"`
	ErrorCount     int               `json:"error_count"`
	FreeRenewals   int               `json:"free_renewals"`
	Renewed        int               `json:"renewed"`
	Expired        int               `json:"expired"`
	Skipped        int               `json:"skipped"`
	Items          []CutItemResponse `json:"items"`
}

func NewCutResponse(result *usecases.CutResult) CutResponse {
	items := make([]CutItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, CutItemResponse{
			MembershipID: item.MembershipID,
			UserID:       item.UserID,
			Decision:     item.Decision,
			Error:        item.Error,
		})
	}
	return CutResponse{
		TotalProcessed: result.TotalProcessed,
		SuccessCount:   result.SuccessCount,
		ErrorCount:     result.ErrorCount,
		FreeRenewals:   result.FreeRenewals,
		Renewed:        result.Renewed,
		Expired:        result.Expired,
		Skipped:        result.Skipped,
		Items:          items,
	}
}
