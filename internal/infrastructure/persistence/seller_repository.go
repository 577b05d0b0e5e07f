package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/seller"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSellerRepository implements seller.SellerRepository using GORM
type GormSellerRepository struct {
	outboxWriter
	db *gorm.DB
}

// NewGormSellerRepository creates a new GormSellerRepository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// FindByID finds a seller by ID
func (r *GormSellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.Seller, error) {
	var model models.SellerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Seller", id)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads sellers in one query; missing ids are skipped
func (r *GormSellerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]seller.Seller, error) {
	if len(ids) == 0 {
		return []seller.Seller{}, nil
	}
	var rows []models.SellerModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainSlice(rows, (*models.SellerModel).ToDomain), nil
}

// FindByHandle finds a seller by its unique handle
func (r *GormSellerRepository) FindByHandle(ctx context.Context, handle string) (*seller.Seller, error) {
	var model models.SellerModel
	if err := r.db.WithContext(ctx).First(&model, "handle = ?", handle).Error; err != nil {
		return nil, notFound(err, "Seller", handle)
	}
	return model.ToDomain(), nil
}

// FindAll lists sellers, optionally filtered by store_status
func (r *GormSellerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]seller.Seller, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SellerModel{})
	if status, ok := filterString(filter, "store_status"); ok {
		query = query.Where("store_status = ?", status)
	}

	var rows []models.SellerModel
	q := listQuery{sortFields: SellerSortFields, defaultSort: "created_at", searchFields: []string{"name", "handle", "email"}}
	total, err := q.find(query, filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.SellerModel).ToDomain), total, nil
}

// ExistsByHandle reports whether a seller uses handle
func (r *GormSellerRepository) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SellerModel{}).Where("handle = ?", handle).Count(&count).Error
	return count > 0, err
}

// Save creates or updates a seller with its pending events
func (r *GormSellerRepository) Save(ctx context.Context, s *seller.Seller) error {
	return r.save(ctx, r.db, s, models.SellerModelFromDomain(s), nil)
}

// GormMemberRepository implements seller.MemberRepository using GORM
type GormMemberRepository struct {
	outboxWriter
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by ID
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*seller.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "Member", id)
	}
	return model.ToDomain(), nil
}

// FindBySeller lists the members of a seller
func (r *GormMemberRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]seller.Member, int64, error) {
	var rows []models.MemberModel
	q := listQuery{sortFields: MemberSortFields, defaultSort: "created_at", searchFields: []string{"name", "email"}}
	total, err := q.find(r.db.WithContext(ctx).Model(&models.MemberModel{}).Scopes(sellerScope(sellerID)), filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.MemberModel).ToDomain), total, nil
}

// FindByEmail finds a member by email, case-insensitively
func (r *GormMemberRepository) FindByEmail(ctx context.Context, email string) (*seller.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&model).Error; err != nil {
		return nil, notFound(err, "Member", email)
	}
	return model.ToDomain(), nil
}

// Save creates or updates a member
func (r *GormMemberRepository) Save(ctx context.Context, m *seller.Member) error {
	return r.save(ctx, r.db, m, models.MemberModelFromDomain(m), nil)
}

// Delete soft deletes a member
func (r *GormMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MemberModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("Member", id)
	}
	return nil
}

// GormInviteRepository implements seller.InviteRepository using GORM
type GormInviteRepository struct {
	outboxWriter
	db *gorm.DB
}

// NewGormInviteRepository creates a new GormInviteRepository
func NewGormInviteRepository(db *gorm.DB) *GormInviteRepository {
	return &GormInviteRepository{db: db}
}

// FindByToken finds an invite by its token
func (r *GormInviteRepository) FindByToken(ctx context.Context, token string) (*seller.MemberInvite, error) {
	var model models.MemberInviteModel
	if err := r.db.WithContext(ctx).First(&model, "token = ?", token).Error; err != nil {
		return nil, notFound(err, "MemberInvite", "token")
	}
	return model.ToDomain(), nil
}

// FindBySeller lists the invites of a seller
func (r *GormInviteRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter shared.Filter) ([]seller.MemberInvite, int64, error) {
	var rows []models.MemberInviteModel
	q := listQuery{sortFields: InviteSortFields, defaultSort: "created_at", searchFields: []string{"email"}}
	total, err := q.find(r.db.WithContext(ctx).Model(&models.MemberInviteModel{}).Scopes(sellerScope(sellerID)), filter, &rows)
	if err != nil {
		return nil, 0, err
	}
	return toDomainSlice(rows, (*models.MemberInviteModel).ToDomain), total, nil
}

// Save creates or updates an invite with its pending events
func (r *GormInviteRepository) Save(ctx context.Context, inv *seller.MemberInvite) error {
	return r.save(ctx, r.db, inv, models.MemberInviteModelFromDomain(inv), nil)
}

// GormOnboardingRepository implements seller.OnboardingRepository using GORM
type GormOnboardingRepository struct {
	db *gorm.DB
}

// NewGormOnboardingRepository creates a new GormOnboardingRepository
func NewGormOnboardingRepository(db *gorm.DB) *GormOnboardingRepository {
	return &GormOnboardingRepository{db: db}
}

// FindBySeller finds the onboarding checklist of a seller
func (r *GormOnboardingRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID) (*seller.Onboarding, error) {
	var model models.SellerOnboardingModel
	if err := r.db.WithContext(ctx).First(&model, "seller_id = ?", sellerID).Error; err != nil {
		return nil, notFound(err, "SellerOnboarding", sellerID)
	}
	return model.ToDomain(), nil
}

// Save upserts the checklist; there is one row per seller
func (r *GormOnboardingRepository) Save(ctx context.Context, o *seller.Onboarding) error {
	model := models.SellerOnboardingModelFromDomain(o)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.SellerOnboardingModel
		err := tx.Where("seller_id = ?", o.SellerID).Take(&existing).Error
		switch {
		case err == nil:
			model.ID = existing.ID
			model.CreatedAt = existing.CreatedAt
			o.ID = existing.ID
			return tx.Model(&existing).Select("*").Omit("created_at").Updates(model).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return translateError(tx.Create(model).Error)
		default:
			return err
		}
	})
}
