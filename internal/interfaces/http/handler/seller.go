package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appseller "github.com/marketplace/backend/internal/application/seller"
	appshared "github.com/marketplace/backend/internal/application/shared"
	"github.com/marketplace/backend/internal/domain/shared"
)

// SellerService is the seller use case set
type SellerService interface {
	Create(ctx context.Context, req appseller.CreateSellerRequest) (*appseller.CreateSellerResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*appseller.SellerResponse, error)
	GetStoreByHandle(ctx context.Context, handle string) (*appseller.StoreSellerResponse, error)
	List(ctx context.Context, query appshared.ListQuery, f appseller.SellerListFilter) (shared.ListResult[appseller.SellerResponse], error)
	Update(ctx context.Context, id uuid.UUID, req appseller.UpdateSellerRequest) (*appseller.SellerResponse, error)
	SetStoreStatus(ctx context.Context, id uuid.UUID, req appseller.SetStoreStatusRequest) (*appseller.SellerResponse, error)
	GetOnboarding(ctx context.Context, sellerID uuid.UUID) (*appseller.OnboardingResponse, error)
	RecomputeOnboarding(ctx context.Context, sellerID uuid.UUID) (*appseller.OnboardingResponse, error)
	Upload(ctx context.Context, sellerID uuid.UUID, contentType string, size int64, body io.Reader) (*appseller.UploadResponse, error)
	ListMembers(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery) (shared.ListResult[appseller.MemberResponse], error)
	GetMember(ctx context.Context, sellerID, memberID uuid.UUID) (*appseller.MemberResponse, error)
	UpdateMember(ctx context.Context, sellerID, actorID uuid.UUID, actorRole string, memberID uuid.UUID, req appseller.UpdateMemberRequest) (*appseller.MemberResponse, error)
	DeleteMember(ctx context.Context, sellerID uuid.UUID, actorRole string, memberID uuid.UUID) error
	InviteMember(ctx context.Context, sellerID uuid.UUID, actorRole string, req appseller.InviteMemberRequest) (*appseller.InviteResponse, error)
	ListInvites(ctx context.Context, sellerID uuid.UUID, query appshared.ListQuery) (shared.ListResult[appseller.InviteResponse], error)
	AcceptInvite(ctx context.Context, req appseller.AcceptInviteRequest) (*appseller.MemberResponse, error)
}

// SellerHandler serves sellers, their members and invites
type SellerHandler struct {
	BaseHandler
	sellerService SellerService
}

// NewSellerHandler creates a new SellerHandler
func NewSellerHandler(sellerService SellerService) *SellerHandler {
	return &SellerHandler{sellerService: sellerService}
}

// =============================================================================
// Vendor
// =============================================================================

// Register handles POST /vendor/sellers: the seller, its owner member and
// the owner's credentials are created together
func (h *SellerHandler) Register(c *gin.Context) {
	var req appseller.CreateSellerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	result, err := h.sellerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetMe handles GET /vendor/sellers/me
func (h *SellerHandler) GetMe(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	seller, err := h.sellerService.GetByID(c.Request.Context(), actor.SellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "seller", seller)
}

// UpdateMe handles POST /vendor/sellers/me
func (h *SellerHandler) UpdateMe(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var req appseller.UpdateSellerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	seller, err := h.sellerService.Update(c.Request.Context(), actor.SellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "seller", seller)
}

// GetOnboarding handles GET /vendor/sellers/me/onboarding
func (h *SellerHandler) GetOnboarding(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	onboarding, err := h.sellerService.GetOnboarding(c.Request.Context(), actor.SellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "onboarding", onboarding)
}

// RecomputeOnboarding handles POST /vendor/sellers/me/onboarding
func (h *SellerHandler) RecomputeOnboarding(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	onboarding, err := h.sellerService.RecomputeOnboarding(c.Request.Context(), actor.SellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "onboarding", onboarding)
}

// Upload handles POST /vendor/uploads with a multipart "file" field
func (h *SellerHandler) Upload(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read file")
		return
	}
	defer file.Close()

	upload, err := h.sellerService.Upload(c.Request.Context(), actor.SellerID,
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "file", upload)
}

// ListMembers handles GET /vendor/members
func (h *SellerHandler) ListMembers(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var query appshared.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	result, err := h.sellerService.ListMembers(c.Request.Context(), actor.SellerID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "members", result)
}

// GetMember handles GET /vendor/members/:id
func (h *SellerHandler) GetMember(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	member, err := h.sellerService.GetMember(c.Request.Context(), actor.SellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "member", member)
}

// UpdateMember handles POST /vendor/members/:id
func (h *SellerHandler) UpdateMember(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appseller.UpdateMemberRequest
	if !h.BindJSON(c, &req) {
		return
	}
	member, err := h.sellerService.UpdateMember(c.Request.Context(), actor.SellerID, actor.MemberID, actor.Role, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "member", member)
}

// DeleteMember handles DELETE /vendor/members/:id
func (h *SellerHandler) DeleteMember(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	if err := h.sellerService.DeleteMember(c.Request.Context(), actor.SellerID, actor.Role, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Deleted(c, id, "member")
}

// ListInvites handles GET /vendor/invites
func (h *SellerHandler) ListInvites(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var query appshared.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}
	result, err := h.sellerService.ListInvites(c.Request.Context(), actor.SellerID, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "invites", result)
}

// Invite handles POST /vendor/invites
func (h *SellerHandler) Invite(c *gin.Context) {
	actor, ok := h.Seller(c)
	if !ok {
		return
	}
	var req appseller.InviteMemberRequest
	if !h.BindJSON(c, &req) {
		return
	}
	invite, err := h.sellerService.InviteMember(c.Request.Context(), actor.SellerID, actor.Role, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "invite", invite)
}

// AcceptInvite handles POST /vendor/invites/accept. It is public: the
// invite token identifies the seller.
func (h *SellerHandler) AcceptInvite(c *gin.Context) {
	var req appseller.AcceptInviteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	member, err := h.sellerService.AcceptInvite(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, "member", member)
}

// =============================================================================
// Admin
// =============================================================================

// List handles GET /admin/sellers
func (h *SellerHandler) List(c *gin.Context) {
	var query appshared.ListQuery
	var filter appseller.SellerListFilter
	if !h.BindQuery(c, &query, &filter) {
		return
	}
	result, err := h.sellerService.List(c.Request.Context(), query, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeList(c, "sellers", result)
}

// Get handles GET /admin/sellers/:id
func (h *SellerHandler) Get(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	seller, err := h.sellerService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "seller", seller)
}

// Update handles POST /admin/sellers/:id
func (h *SellerHandler) Update(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appseller.UpdateSellerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	seller, err := h.sellerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "seller", seller)
}

// SetStatus handles POST /admin/sellers/:id/status
func (h *SellerHandler) SetStatus(c *gin.Context) {
	id, ok := h.PathID(c, "id")
	if !ok {
		return
	}
	var req appseller.SetStoreStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	seller, err := h.sellerService.SetStoreStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "seller", seller)
}

// =============================================================================
// Store
// =============================================================================

// GetStore handles GET /store/sellers/:handle
func (h *SellerHandler) GetStore(c *gin.Context) {
	seller, err := h.sellerService.GetStoreByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, "seller", seller)
}
