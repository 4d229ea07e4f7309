package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"nexus/internal/domain/membership"
	vo "nexus/internal/domain/membership/valueobjects"
	"nexus/internal/shared/biztime"
	"nexus/internal/shared/logger"
)

// Decisions the cut job can take for an overdue membership.
const (
	CutDecisionFreeRenewal = "FREE_RECONSUMPTION"
	CutDecisionRenewed     = "RENEWED"
	CutDecisionExpired     = "EXPIRED"
	CutDecisionSkipped     = "SKIPPED"
)

type CutItemResult struct {
	MembershipID uint
	UserID       string
	Decision     string
	Error        string
}

type CutResult struct {
	TotalProcessed int
	SuccessCount   int
	ErrorCount     int
	FreeRenewals   int
	Renewed        int
	Expired        int
	Skipped        int
	Items          []CutItemResult
}

// RunReconsumptionCutUseCase is the daily renewal sweep. For every
// membership past its end date it decides, in order: a free renewal when
// the member's order volume over the validity period met the minimum, a
// point-funded renewal when the member opted in and holds enough points,
// or expiration once the grace period has lapsed. Memberships still inside
// the grace period are left untouched. One membership failing never stops
// the sweep; failures are collected per item.
type RunReconsumptionCutUseCase struct {
	membershipRepo membership.MembershipRepository
	planRepo       membership.PlanRepository
	historyRepo    membership.HistoryRepository
	reconsume      *CreateReconsumptionUseCase
	orders         OrdersClient
	points         PointsClient
	freeAmount     decimal.Decimal
	graceDays      int
	logger         logger.Interface
	today          func() time.Time
}

func NewRunReconsumptionCutUseCase(
	membershipRepo membership.MembershipRepository,
	planRepo membership.PlanRepository,
	historyRepo membership.HistoryRepository,
	reconsume *CreateReconsumptionUseCase,
	orders OrdersClient,
	points PointsClient,
	freeAmount decimal.Decimal,
	graceDays int,
	logger logger.Interface,
) *RunReconsumptionCutUseCase {
	if graceDays <= 0 {
		graceDays = membership.DefaultGraceDays
	}
	return &RunReconsumptionCutUseCase{
		membershipRepo: membershipRepo,
		planRepo:       planRepo,
		historyRepo:    historyRepo,
		reconsume:      reconsume,
		orders:         orders,
		points:         points,
		freeAmount:     freeAmount,
		graceDays:      graceDays,
		logger:         logger,
		today:          biztime.Today,
	}
}

func (uc *RunReconsumptionCutUseCase) Execute(ctx context.Context) (*CutResult, error) {
	today := uc.today()

	overdue, err := uc.membershipRepo.FindExpired(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue memberships: %w", err)
	}

	result := &CutResult{TotalProcessed: len(overdue)}

	uc.logger.Infow("reconsumption cut started",
		"date", today.Format("2006-01-02"), "candidates", len(overdue))

	volumes, err := uc.fetchOrderVolumes(ctx, overdue)
	if err != nil {
		return nil, err
	}

	for _, m := range overdue {
		item := CutItemResult{MembershipID: m.ID(), UserID: m.UserID()}

		decision, err := uc.processOne(ctx, m, volumes, today)
		if err != nil {
			item.Error = err.Error()
			result.ErrorCount++
			uc.logger.Errorw("cut processing failed for membership",
				"membership_id", m.ID(), "user_id", m.UserID(), "error", err)
		} else {
			item.Decision = decision
			result.SuccessCount++
			switch decision {
			case CutDecisionFreeRenewal:
				result.FreeRenewals++
			case CutDecisionRenewed:
				result.Renewed++
			case CutDecisionExpired:
				result.Expired++
			case CutDecisionSkipped:
				result.Skipped++
			}
		}
		result.Items = append(result.Items, item)
	}

	uc.logger.Infow("reconsumption cut finished",
		"total", result.TotalProcessed, "success", result.SuccessCount, "errors", result.ErrorCount,
		"free_renewals", result.FreeRenewals, "renewed", result.Renewed,
		"expired", result.Expired, "skipped", result.Skipped)

	return result, nil
}

func (uc *RunReconsumptionCutUseCase) processOne(ctx context.Context, m *membership.Membership, volumes map[string]OrderSummary, today time.Time) (string, error) {
	if !m.IsPointLot() {
		if summary, ok := volumes[m.UserID()]; ok && summary.MeetsMinimumAmount {
			return uc.freeRenewal(ctx, m)
		}
	}

	if m.IsPointLot() || m.AutoRenewal() {
		required, funded, err := uc.pointsCoverRenewal(ctx, m)
		if err != nil {
			return "", err
		}
		if funded {
			return uc.pointRenewal(ctx, m, required)
		}
	}

	if m.WithinGracePeriod(today, uc.graceDays) {
		uc.logger.Debugw("membership inside grace period, skipping",
			"membership_id", m.ID(), "end_date", m.EndDate().Format("2006-01-02"))
		return CutDecisionSkipped, nil
	}

	return uc.expire(ctx, m, today)
}

// fetchOrderVolumes batches the order-volume lookup for every candidate
// that can qualify for a free renewal. The validation window is the
// validity period shifted by the grace offset so late orders still count.
func (uc *RunReconsumptionCutUseCase) fetchOrderVolumes(ctx context.Context, overdue []*membership.Membership) (map[string]OrderSummary, error) {
	var queries []OrderPeriodQuery
	for _, m := range overdue {
		if m.IsPointLot() {
			continue
		}
		queries = append(queries, OrderPeriodQuery{
			UserID:        m.UserID(),
			StartDate:     m.StartDate().AddDate(0, 0, uc.graceDays),
			EndDate:       m.EndDate().AddDate(0, 0, uc.graceDays),
			MinimumAmount: m.MinimumReconsumptionAmount(),
		})
	}
	volumes := make(map[string]OrderSummary, len(queries))
	if len(queries) == 0 {
		return volumes, nil
	}

	summaries, err := uc.orders.SummaryByPeriod(ctx, queries)
	if err != nil {
		return nil, fmt.Errorf("failed to query order volumes: %w", err)
	}
	for _, s := range summaries {
		volumes[s.UserID] = s
	}
	return volumes, nil
}

// pointsCoverRenewal reports whether the user's point balance covers the
// plan's requirement, and returns that requirement so the renewal charges
// it rather than the membership's minimum.
func (uc *RunReconsumptionCutUseCase) pointsCoverRenewal(ctx context.Context, m *membership.Membership) (decimal.Decimal, bool, error) {
	plan, err := uc.planRepo.GetByID(ctx, m.PlanID())
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return decimal.Zero, false, fmt.Errorf("plan %d not found", m.PlanID())
	}
	required := decimal.NewFromInt(int64(plan.PointsRequirement()))

	balance, err := uc.points.GetUserPoints(ctx, m.UserID())
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get point balance: %w", err)
	}
	return required, balance != nil && balance.AvailablePoints.GreaterThanOrEqual(required), nil
}

func (uc *RunReconsumptionCutUseCase) freeRenewal(ctx context.Context, m *membership.Membership) (string, error) {
	_, err := uc.reconsume.Execute(ctx, CreateReconsumptionCommand{
		UserID:       m.UserID(),
		MembershipID: m.ID(),
		Amount:       uc.freeAmount,
		Method:       vo.PaymentMethodPoints,
		FreeRenewal:  true,
	})
	if err != nil {
		return "", fmt.Errorf("free renewal failed: %w", err)
	}
	uc.logger.Infow("membership renewed for free, order volume met",
		"membership_id", m.ID(), "user_id", m.UserID())
	return CutDecisionFreeRenewal, nil
}

func (uc *RunReconsumptionCutUseCase) pointRenewal(ctx context.Context, m *membership.Membership, amount decimal.Decimal) (string, error) {
	_, err := uc.reconsume.Execute(ctx, CreateReconsumptionCommand{
		UserID:       m.UserID(),
		MembershipID: m.ID(),
		Amount:       amount,
		Method:       vo.PaymentMethodPoints,
	})
	if err != nil {
		return "", fmt.Errorf("point renewal failed: %w", err)
	}
	uc.logger.Infow("membership renewed with points",
		"membership_id", m.ID(), "user_id", m.UserID())
	return CutDecisionRenewed, nil
}

func (uc *RunReconsumptionCutUseCase) expire(ctx context.Context, m *membership.Membership, today time.Time) (string, error) {
	if err := m.MarkExpired(); err != nil {
		return "", fmt.Errorf("failed to mark expired: %w", err)
	}
	if err := uc.membershipRepo.Update(ctx, m); err != nil {
		return "", fmt.Errorf("failed to persist expiration: %w", err)
	}

	h, err := membership.NewHistory(m.ID(), vo.ActionExpired,
		fmt.Sprintf("Membership expired on cut of %s", today.Format("2006-01-02")))
	if err == nil {
		h.SetMetadata(map[string]interface{}{
			"end_date":   m.EndDate().Format("2006-01-02"),
			"grace_days": uc.graceDays,
		})
		err = uc.historyRepo.Create(ctx, h)
	}
	if err != nil {
		uc.logger.Errorw("failed to record expiration history",
			"membership_id", m.ID(), "error", err)
	}

	uc.logger.Infow("membership expired",
		"membership_id", m.ID(), "user_id", m.UserID(), "end_date", m.EndDate().Format("2006-01-02"))
	return CutDecisionExpired, nil
}
