package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/memberdir/apiserver/internal/services"
	"github.com/memberdir/apiserver/internal/store"
	"github.com/memberdir/apiserver/internal/token"
	"github.com/memberdir/apiserver/internal/validate"
	"github.com/memberdir/apiserver/types"
)

// MemberHandler serves the member CRUD endpoints mounted at the root
// path. Every request runs the same pipeline: tier check, payload
// validation, store operation, response.
type MemberHandler struct {
	memberService *services.MemberService
}

func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// MemberRouter registers the member routes behind the auth middleware.
func MemberRouter(r chi.Router, memberService *services.MemberService, issuer *token.Issuer) {
	handler := NewMemberHandler(memberService)
	auth := RequireAuth(issuer)

	r.With(auth).Get("/", handler.GetMember)
	r.With(auth).Put("/", handler.PutMember)
	r.With(auth).Delete("/", handler.DeleteMember)
}

// GetMember looks up a member by memberID. Requires access tier 1+.
//
// A failed lookup answers 400 rather than 404, and a failed tier check
// answers 403 while PUT and DELETE answer 200; both inconsistencies are
// long-standing wire behavior that existing clients depend on.
func (h *MemberHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeMsg(w, http.StatusUnauthorized, "Invalid Token")
		return
	}
	if identity.AccessRights < types.AccessRead {
		writeMsg(w, http.StatusForbidden, "Access Denied")
		return
	}

	fields := decodeFields(r)
	if !validate.Payload(validate.Request{Method: r.Method, Fields: fields}) {
		writeMsg(w, http.StatusBadRequest, "Missing JSON In Request")
		return
	}

	memberID, ok := memberIDField(fields)
	if !ok {
		writeMsg(w, http.StatusBadRequest, "No Such User")
		return
	}

	member, err := h.memberService.Get(r.Context(), memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMsg(w, http.StatusBadRequest, "No Such User")
			return
		}
		writeMsg(w, http.StatusInternalServerError, "Failed To Fetch Member")
		return
	}

	writeJSON(w, http.StatusOK, member)
}

// PutMember creates a member. Requires access tier 2+; an insufficient
// tier answers 200 "Access Denied" (see GetMember).
func (h *MemberHandler) PutMember(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeMsg(w, http.StatusUnauthorized, "Invalid Token")
		return
	}
	if identity.AccessRights < types.AccessWrite {
		writeMsg(w, http.StatusOK, "Access Denied")
		return
	}

	fields := decodeFields(r)
	if !validate.Payload(validate.Request{Method: r.Method, Fields: fields}) {
		writeMsg(w, http.StatusBadRequest, "Missing JSON In Request")
		return
	}

	member := types.Member{
		Name:  stringField(fields, "name"),
		Email: stringField(fields, "email"),
		Phone: stringField(fields, "phone"),
	}
	if !validate.Email(member.Email) || !validate.Phone(member.Phone) {
		writeMsg(w, http.StatusBadRequest, "Invalid Phone Number or Email")
		return
	}

	if _, err := h.memberService.Create(r.Context(), member, identity.Username); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			writeMsg(w, http.StatusConflict, "Name Already Exists")
			return
		}
		writeMsg(w, http.StatusInternalServerError, "Failed To Create Member")
		return
	}

	writeMsg(w, http.StatusCreated, "Success")
}

// DeleteMember removes a member by memberID. Requires access tier 3;
// an insufficient tier answers 200 "Access Denied" (see GetMember).
func (h *MemberHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeMsg(w, http.StatusUnauthorized, "Invalid Token")
		return
	}
	if identity.AccessRights < types.AccessDelete {
		writeMsg(w, http.StatusOK, "Access Denied")
		return
	}

	fields := decodeFields(r)
	if !validate.Payload(validate.Request{Method: r.Method, Fields: fields}) {
		writeMsg(w, http.StatusBadRequest, "Missing JSON In Request")
		return
	}

	memberID, ok := memberIDField(fields)
	if !ok {
		writeMsg(w, http.StatusNotFound, "No Such Entry")
		return
	}

	if err := h.memberService.Delete(r.Context(), memberID, identity.Username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMsg(w, http.StatusNotFound, "No Such Entry")
			return
		}
		writeMsg(w, http.StatusInternalServerError, "Failed To Delete Member")
		return
	}

	writeMsg(w, http.StatusOK, "success")
}
