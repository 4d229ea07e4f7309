package membership

import (
	"time"

	"github.com/shopspring/decimal"

	"nexus/internal/application/membership/usecases"
	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
)

type PaymentProofRequest struct {
	BankName             string          `json:"bank_name" binding:"required,max=100"`
	TransactionReference string          `json:"transaction_reference" binding:"required,max=100"`
	TransactionDate      string          `json:"transaction_date" binding:"required"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	FileURL              string          `json:"file_url,omitempty"`
}

func toPaymentProofs(reqs []PaymentProofRequest) []usecases.PaymentProof {
	proofs := make([]usecases.PaymentProof, 0, len(reqs))
	for _, p := range reqs {
		proofs = append(proofs, usecases.PaymentProof{
			BankName:             p.BankName,
			TransactionReference: p.TransactionReference,
			TransactionDate:      p.TransactionDate,
			Amount:               p.Amount,
			FileURL:              p.FileURL,
		})
	}
	return proofs
}

type SubscribeRequest struct {
	PlanID        uint                  `json:"plan_id" binding:"required"`
	PaymentMethod string                `json:"payment_method" binding:"required,payment_method"`
	Payments      []PaymentProofRequest `json:"payments,omitempty"`
	SourceID      string                `json:"source_id,omitempty"`
}

func (r *SubscribeRequest) ToCommand(userID string) usecases.ProcessSubscriptionCommand {
	return usecases.ProcessSubscriptionCommand{
		UserID:   userID,
		PlanID:   r.PlanID,
		Method:   vo.PaymentMethod(r.PaymentMethod),
		Payments: toPaymentProofs(r.Payments),
		SourceID: r.SourceID,
	}
}

type ReconsumeRequest struct {
	MembershipID  uint                  `json:"membership_id,omitempty"`
	Amount        decimal.Decimal       `json:"amount,omitempty"`
	PaymentMethod string                `json:"payment_method" binding:"required,payment_method"`
	Payments      []PaymentProofRequest `json:"payments,omitempty"`
	SourceID      string                `json:"source_id,omitempty"`
}

func (r *ReconsumeRequest) ToCommand(userID string) usecases.CreateReconsumptionCommand {
	return usecases.CreateReconsumptionCommand{
		UserID:       userID,
		MembershipID: r.MembershipID,
		Amount:       r.Amount,
		Method:       vo.PaymentMethod(r.PaymentMethod),
		Payments:     toPaymentProofs(r.Payments),
		SourceID:     r.SourceID,
	}
}

type MembershipResponse struct {
	ID                         uint            `json:"id"`
	UserID                     string          `json:"user_id"`
	PlanID                     uint            `json:"plan_id"`
	FromPlanID                 *uint           `json:"from_plan_id,omitempty"`
	Status                     string          `json:"status"`
	StartDate                  time.Time       `json:"start_date"`
	EndDate                    time.Time       `json:"end_date"`
	PaidAmount                 decimal.Decimal `json:"paid_amount"`
	PaymentReference           *string         `json:"payment_reference,omitempty"`
	MinimumReconsumptionAmount decimal.Decimal `json:"minimum_reconsumption_amount"`
	AutoRenewal                bool            `json:"auto_renewal"`
	IsPointLot                 bool            `json:"is_point_lot"`
	UseCard                    bool            `json:"use_card"`
	WelcomeKitDelivered        bool            `json:"welcome_kit_delivered"`
	CreatedAt                  time.Time       `json:"created_at"`
}

func NewMembershipResponse(m *membership.Membership) *MembershipResponse {
	if m == nil {
		return nil
	}
	return &MembershipResponse{
		ID:                         m.ID(),
		UserID:                     m.UserID(),
		PlanID:                     m.PlanID(),
		FromPlanID:                 m.FromPlanID(),
		Status:                     m.Status().String(),
		StartDate:                  m.StartDate(),
		EndDate:                    m.EndDate(),
		PaidAmount:                 m.PaidAmount(),
		PaymentReference:           m.PaymentReference(),
		MinimumReconsumptionAmount: m.MinimumReconsumptionAmount(),
		AutoRenewal:                m.AutoRenewal(),
		IsPointLot:                 m.IsPointLot(),
		UseCard:                    m.UseCard(),
		WelcomeKitDelivered:        m.WelcomeKitDelivered(),
		CreatedAt:                  m.CreatedAt(),
	}
}

func NewMembershipResponses(ms []*membership.Membership) []*MembershipResponse {
	out := make([]*MembershipResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, NewMembershipResponse(m))
	}
	return out
}

type PlanResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	CheckAmount  decimal.Decimal `json:"check_amount"`
	BinaryPoints int             `json:"binary_points"`
	DisplayOrder int             `json:"display_order"`
	IsUpgrade    bool            `json:"is_upgrade"`
	UpgradeCost  decimal.Decimal `json:"upgrade_cost"`
}

func NewPlanResponse(opt usecases.PlanOption) PlanResponse {
	return PlanResponse{
		ID:           opt.Plan.ID(),
		Name:         opt.Plan.Name(),
		Price:        opt.Plan.Price(),
		CheckAmount:  opt.Plan.CheckAmount(),
		BinaryPoints: opt.Plan.BinaryPoints(),
		DisplayOrder: opt.Plan.DisplayOrder(),
		IsUpgrade:    opt.IsUpgrade,
		UpgradeCost:  opt.UpgradeCost,
	}
}

type ReconsumptionResponse struct {
	ID               uint            `json:"id"`
	MembershipID     uint            `json:"membership_id"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
	PeriodDate       time.Time       `json:"period_date"`
	PaymentReference *string         `json:"payment_reference,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func NewReconsumptionResponse(r *membership.Reconsumption) *ReconsumptionResponse {
	if r == nil {
		return nil
	}
	return &ReconsumptionResponse{
		ID:               r.ID(),
		MembershipID:     r.MembershipID(),
		Amount:           r.Amount(),
		Status:           r.Status().String(),
		PeriodDate:       r.PeriodDate(),
		PaymentReference: r.PaymentReference(),
		Notes:            r.Notes(),
		CreatedAt:        r.CreatedAt(),
	}
}

func NewReconsumptionResponses(rs []*membership.Reconsumption) []*ReconsumptionResponse {
	out := make([]*ReconsumptionResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewReconsumptionResponse(r))
	}
	return out
}

type HistoryResponse struct {
	ID           uint                   `json:"id"`
	MembershipID uint                   `json:"membership_id"`
	Action       string                 `json:"action"`
	Notes        string                 `json:"notes,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

func NewHistoryResponses(hs []*membership.History) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(hs))
	for _, h := range hs {
		out = append(out, HistoryResponse{
			ID:           h.ID(),
			MembershipID: h.MembershipID(),
			Action:       h.Action().String(),
			Notes:        h.Notes(),
			Metadata:     h.Metadata(),
			CreatedAt:    h.CreatedAt(),
		})
	}
	return out
}

type StatusResponse struct {
	HasMembership        bool                   `json:"has_membership"`
	Membership           *MembershipResponse    `json:"membership,omitempty"`
	Plan                 *PlanDetail            `json:"plan,omitempty"`
	DaysRemaining        int                    `json:"days_remaining"`
	CanReconsume         bool                   `json:"can_reconsume"`
	PendingReconsumption *ReconsumptionResponse `json:"pending_reconsumption,omitempty"`
}

type PlanDetail struct {
	ID    uint            `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func NewStatusResponse(result *usecases.MembershipStatusResult) StatusResponse {
	resp := StatusResponse{
		HasMembership:        result.HasMembership,
		Membership:           NewMembershipResponse(result.Membership),
		DaysRemaining:        result.DaysRemaining,
		CanReconsume:         result.CanReconsume,
		PendingReconsumption: NewReconsumptionResponse(result.PendingReconsumption),
	}
	if result.Plan != nil {
		resp.Plan = &PlanDetail{
			ID:    result.Plan.ID(),
			Name:  result.Plan.Name(),
			Price: result.Plan.Price(),
		}
	}
	return resp
}

type SubscriptionResponse struct {
	Membership  *MembershipResponse `json:"membership"`
	PaymentID   string              `json:"payment_id,omitempty"`
	IsUpgrade   bool                `json:"is_upgrade"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
}

type ReconsumptionCreatedResponse struct {
	Reconsumption *ReconsumptionResponse `json:"reconsumption"`
	PaymentID     string                 `json:"payment_id,omitempty"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	Renewed       bool                   `json:"renewed"`
}

type PricingResponse struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	IsUpgrade   bool            `json:"is_upgrade"`
	PlanID      uint            `json:"plan_id"`
	PlanName    string          `json:"plan_name"`
}
