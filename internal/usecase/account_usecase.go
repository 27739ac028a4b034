package usecase

import (
	"context"

	"github.com/techsplot/smart-health-backend/internal/converter"
	"github.com/techsplot/smart-health-backend/internal/delivery/dto"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"
	"github.com/techsplot/smart-health-backend/internal/domain/repository"
	"github.com/techsplot/smart-health-backend/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountUsecase interface {
	CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.UserResponse, error)
	ListDoctors(ctx context.Context, specialization string) (*dto.UserListResponse, error)
	ListPatients(ctx context.Context) (*dto.UserListResponse, error)
}

type accountUsecase struct {
	db       *gorm.DB
	log      *logrus.Logger
	userRepo repository.UserRepository
	audit    service.AuditService
}

func NewAccountUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	audit service.AuditService,
) AccountUsecase {
	return &accountUsecase{
		db:       db,
		log:      log,
		userRepo: userRepo,
		audit:    audit,
	}
}

// CreateDoctor provisions a doctor account. Route-level middleware already
// restricts this to admins; the actor is recorded on the audit trail.
func (u *accountUsecase) CreateDoctor(ctx context.Context, actor entity.Actor, req *dto.CreateDoctorRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	specialization := req.Specialization
	user := &entity.User{
		Email:          req.Email,
		Password:       string(hashedPassword),
		FullName:       req.FullName,
		Role:           entity.RoleDoctor,
		Specialization: &specialization,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create doctor account: %+v", err)
		return nil, err
	}

	if err := u.audit.Record(tx, &actor.ID, entity.AuditActionDoctorCreate, entity.JSON{
		"doctor_id":      user.ID.String(),
		"email":          user.Email,
		"specialization": specialization,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.UserToResponse(user), nil
}

func (u *accountUsecase) ListDoctors(ctx context.Context, specialization string) (*dto.UserListResponse, error) {
	doctors, err := u.userRepo.FindByRole(u.db.WithContext(ctx), entity.RoleDoctor, specialization)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(doctors),
		Total: len(doctors),
	}, nil
}

func (u *accountUsecase) ListPatients(ctx context.Context) (*dto.UserListResponse, error) {
	patients, err := u.userRepo.FindByRole(u.db.WithContext(ctx), entity.RolePatient, "")
	if err != nil {
		u.log.Warnf("Failed to list patients: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(patients),
		Total: len(patients),
	}, nil
}
