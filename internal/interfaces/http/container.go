// Package http wires the application together and serves the REST API.
package http

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"nexus/internal/application/membership/usecases"
	"nexus/internal/domain/membership"
	"nexus/internal/infrastructure/auth"
	"nexus/internal/infrastructure/config"
	"nexus/internal/infrastructure/email"
	"nexus/internal/infrastructure/lock"
	"nexus/internal/infrastructure/msclient"
	"nexus/internal/infrastructure/repository"
	"nexus/internal/infrastructure/scheduler"
	adminhandlers "nexus/internal/interfaces/http/handlers/admin/membership"
	membershiphandlers "nexus/internal/interfaces/http/handlers/membership"
	"nexus/internal/interfaces/http/middleware"
	"nexus/internal/shared/db"
	"nexus/internal/shared/logger"
)

// Container holds every wired component of the service.
type Container struct {
	Config *config.Config

	MembershipRepo    membership.MembershipRepository
	PlanRepo          membership.PlanRepository
	ReconsumptionRepo membership.ReconsumptionRepository
	HistoryRepo       membership.HistoryRepository

	NATSClient *msclient.Client
	Redis      *redis.Client

	MembershipHandler *membershiphandlers.MembershipHandler
	AdminHandler      *adminhandlers.AdminHandler
	AuthMiddleware    *middleware.AuthMiddleware

	CutUC    *usecases.RunReconsumptionCutUseCase
	WeeklyUC *usecases.RunWeeklySettlementUseCase

	Scheduler *scheduler.Manager
}

// BuildContainer wires repositories, service clients, use cases, and
// handlers on top of the open database connection.
func BuildContainer(cfg *config.Config, gormDB *gorm.DB, log logger.Interface) (*Container, error) {
	membershipRepo := repository.NewMembershipRepository(gormDB, log)
	planRepo := repository.NewMembershipPlanRepository(gormDB, log)
	reconsumptionRepo := repository.NewReconsumptionRepository(gormDB, log)
	historyRepo := repository.NewMembershipHistoryRepository(gormDB, log)

	tx := db.NewTransactionManager(gormDB)

	natsClient, err := msclient.Connect(&cfg.NATS, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	identityClient := msclient.NewIdentityClient(natsClient, cfg.NATS.UsersSubject)
	paymentClient := msclient.NewPaymentClient(natsClient, cfg.NATS.PaymentSubject)
	pointsClient := msclient.NewPointsClient(natsClient, cfg.NATS.PointsSubject)
	ordersClient := msclient.NewOrdersClient(natsClient, cfg.NATS.OrdersSubject)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	locker := lock.NewRedisUserLocker(redisClient, log)

	notifier := email.NewSMTPNotifier(cfg.Email, log)

	freeAmount, err := decimal.NewFromString(cfg.Membership.FreeReconsumptionAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid free_reconsumption_amount: %w", err)
	}

	pricingUC := usecases.NewEvaluatePricingUseCase(membershipRepo, planRepo, log)
	subscribeUC := usecases.NewProcessSubscriptionUseCase(
		membershipRepo, planRepo, historyRepo, pricingUC,
		identityClient, paymentClient, locker, log)
	reconsumeUC := usecases.NewCreateReconsumptionUseCase(
		membershipRepo, reconsumptionRepo, historyRepo, planRepo,
		identityClient, paymentClient, locker,
		cfg.Membership.RenewalWindowDays, cfg.Membership.GraceDays, log)

	statusUC := usecases.NewGetMembershipStatusUseCase(
		membershipRepo, planRepo, reconsumptionRepo,
		cfg.Membership.RenewalWindowDays, log)
	listPlansUC := usecases.NewListPlansUseCase(planRepo, membershipRepo, log)
	listReconsumptionsUC := usecases.NewListReconsumptionsUseCase(
		membershipRepo, reconsumptionRepo, cfg.Membership.RenewalWindowDays, log)
	listHistoryUC := usecases.NewListHistoryUseCase(membershipRepo, historyRepo, log)

	approveUC := usecases.NewApproveMembershipUseCase(
		membershipRepo, planRepo, historyRepo, tx, notifier, log)
	rejectUC := usecases.NewRejectMembershipUseCase(
		membershipRepo, historyRepo, tx, notifier, log)
	rejectUpgradeUC := usecases.NewRejectPlanUpgradeUseCase(
		membershipRepo, planRepo, historyRepo, tx, log)
	approveReconsumptionUC := usecases.NewApproveReconsumptionUseCase(
		reconsumptionRepo, membershipRepo, historyRepo, tx,
		cfg.Membership.GraceDays, log)
	rejectReconsumptionUC := usecases.NewRejectReconsumptionUseCase(reconsumptionRepo, log)
	updateUC := usecases.NewUpdateMembershipUseCase(membershipRepo, historyRepo, tx, log)
	welcomeKitUC := usecases.NewUpdateWelcomeKitUseCase(membershipRepo, log)
	manualSubscriptionUC := usecases.NewManualSubscriptionUseCase(
		membershipRepo, planRepo, historyRepo, identityClient, locker, log)
	listUC := usecases.NewListMembershipsUseCase(membershipRepo, log)

	cutUC := usecases.NewRunReconsumptionCutUseCase(
		membershipRepo, planRepo, historyRepo, reconsumeUC,
		ordersClient, pointsClient, freeAmount, cfg.Membership.GraceDays, log)
	weeklyUC := usecases.NewRunWeeklySettlementUseCase(pointsClient, log)

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)

	membershipHandler := membershiphandlers.NewMembershipHandler(
		statusUC, listPlansUC, pricingUC, subscribeUC, reconsumeUC,
		listReconsumptionsUC, listHistoryUC)
	adminHandler := adminhandlers.NewAdminHandler(
		listUC, approveUC, rejectUC, rejectUpgradeUC,
		approveReconsumptionUC, rejectReconsumptionUC,
		updateUC, welcomeKitUC, manualSubscriptionUC, cutUC, weeklyUC)

	schedulerManager := scheduler.NewManager(cfg.Schedule, cutUC, weeklyUC, log)

	return &Container{
		Config:            cfg,
		MembershipRepo:    membershipRepo,
		PlanRepo:          planRepo,
		ReconsumptionRepo: reconsumptionRepo,
		HistoryRepo:       historyRepo,
		NATSClient:        natsClient,
		Redis:             redisClient,
		MembershipHandler: membershipHandler,
		AdminHandler:      adminHandler,
		AuthMiddleware:    authMiddleware,
		CutUC:             cutUC,
		WeeklyUC:          weeklyUC,
		Scheduler:         schedulerManager,
	}, nil
}

// Close releases the container's external connections.
func (c *Container) Close() error {
	if c.NATSClient != nil {
		c.NATSClient.Close()
	}
	if c.Redis != nil {
		return c.Redis.Close()
	}
	return nil
}
